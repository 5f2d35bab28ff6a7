package mathparser

// Formula is the source of a function definition together with the
// definition parsed from it.
type Formula struct {
	// Source is the text of the defining equation.
	Source string
	// Func is the function the equation defines.
	Func *FuncDef
	// Decl is the location of the left side of the equation.
	Decl Location
	// Def is the location of the right side of the equation.
	Def Location
}

// ParseFormula parses and extracts a function definition. Errors are
// *MathError.
func ParseFormula(src string, opts ...ParseOption) (*Formula, error) {
	cmd, err := ParseCommand(src, opts...)
	if err != nil {
		return nil, AsMathError(err)
	}
	f, err := DefineFunc(cmd)
	if err != nil {
		return nil, err
	}
	return &Formula{Source: src, Func: f, Decl: cmd.Pred.Left.Location, Def: cmd.Pred.Right.Location}, nil
}

// Declaration returns the left side of the equation as written, like
// "f(x, y)".
func (f *Formula) Declaration() string {
	return f.Decl.Text(f.Source)
}

// Definition returns the right side of the equation as written.
func (f *Formula) Definition() string {
	return f.Def.Text(f.Source)
}
