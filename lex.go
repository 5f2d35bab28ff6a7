package mathparser

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	// pos and end are the byte offsets of the token in the source.
	pos, end int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

func (t lexToken) loc() Location {
	return Location{Start: t.pos, End: t.end}
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input. Its position is the end of the
	// last token before it.
	tokenEOF
	// tokenNum is a sequence of decimal digits.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenKeyword is one of the reserved words if, then, else.
	tokenKeyword
	// tokenOp is an arithmetic operator.
	tokenOp
	// tokenCmp is a comparison operator.
	tokenCmp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a comma separating function arguments.
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenKeyword:
		return "Keyword"
	case tokenOp:
		return "Op"
	case tokenCmp:
		return "Cmp"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are arithmetic operators.
const Operators = "+-*/%"

// Keywords are the reserved words of the conditional expression. They cannot
// be used as names.
var Keywords = []string{"if", "then", "else"}

func iskeyword(s string) bool {
	for _, k := range Keywords {
		if s == k {
			return true
		}
	}
	return false
}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// off is the byte offset of the next rune to read.
	off int
	// sz is the size of the last rune read, for unreading.
	sz int
	// last is the end of the last non-EOF token.
	last int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("mathparser: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("mathparser: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	l.off += sz
	l.sz = sz
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.off -= l.sz
	l.sz = 0
}

// next scans the next token from the input. The first time EOF is reached, the
// result is an EOF token with a nil error. Subsequent times, if the EOF token
// is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.off}
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return lexToken{kind: tokenEOF, pos: l.last, end: l.last}, nil
			}
			return tok, &InternalError{Reason: "reading input: " + err.Error()}
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			l.scanNum()
			tok.text = l.buf.String()
			tok.kind = tokenNum
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			if iskeyword(tok.text) {
				tok.kind = tokenKeyword
			}
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
		case r == '=':
			tok.text = "="
			tok.kind = tokenCmp
		case r == '<', r == '>':
			tok.text = string(r)
			tok.kind = tokenCmp
			if err := l.scanEq(&tok); err != nil {
				return tok, err
			}
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
		default:
			return tok, &InvalidTokenError{Pos: tok.pos, Text: string(r)}
		}
		tok.end = l.off
		l.last = tok.end
		return tok, nil
	}
}

// scanNum scans a run of decimal digits. The first rune is known to be a
// digit.
func (l *lexer) scanNum() {
	for {
		r, err := l.readRune()
		if err != nil {
			// EOF ends the number. Any other error will surface on the next
			// call to next.
			return
		}
		if r < '0' || '9' < r {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return &InternalError{Reason: "reading input: " + err.Error()}
		}
		switch {
		case r == '_', unicode.IsLetter(r), '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanEq extends a < or > token to <= or >=.
func (l *lexer) scanEq(tok *lexToken) error {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &InternalError{Reason: "reading input: " + err.Error()}
	}
	if r == '=' {
		tok.text += "="
		return nil
	}
	l.unreadRune()
	return nil
}
