package mathparser

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt  int
	lengthopt int
	presetopt []ParseOption
)

// parsectx holds the limits for one parse.
type parsectx struct {
	// maxDepth is the maximum nesting of brackets, calls, negations, and
	// conditionals. Zero means no limit.
	maxDepth int
	// maxLen is the maximum input length in bytes. Zero means no limit.
	maxLen int
}

// MaxDepth limits how deeply parenthesized expressions, function calls,
// negations, and conditionals may nest. Evaluation recursion follows the
// nesting of the tree, so callers accepting input from untrusted users should
// set a limit. A limit of zero or less removes it.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxDepth = max(int(o), 0)
	return p
}

// MaxLength limits the length of the input in bytes. A limit of zero or less
// removes it.
func MaxLength(n int) ParseOption {
	return lengthopt(n)
}

func (o lengthopt) parseOption(p parsectx) parsectx {
	p.maxLen = max(int(o), 0)
	return p
}

// ParsingPreset combines several options into one so that the same limits can
// be reused for many calls to Parse. Options given after a preset override it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	return presetopt(append([]ParseOption(nil), opts...))
}

func (o presetopt) parseOption(p parsectx) parsectx {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}
