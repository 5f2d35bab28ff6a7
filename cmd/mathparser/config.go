package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/mathparser"
)

// Sentinel errors
var (
	ErrDuplicateName = errors.New("name is defined more than once")
	ErrBadGiven      = errors.New(`variable definitions must be "name=expression"`)
)

// Config is the contents of a definitions file.
type Config struct {
	// Functions are defining equations like "f(x) = x*x".
	Functions []string `yaml:"functions"`
	// Variables maps names to expressions. The expressions may call the
	// functions but not refer to other variables.
	Variables map[string]string `yaml:"variables"`
	// MaxCalls limits function applications per evaluation. Zero means no
	// limit.
	MaxCalls int `yaml:"max_calls"`
	// Decimals is the number of decimal places to show alongside fractions.
	// Zero shows only fractions.
	Decimals int `yaml:"decimals"`
}

// LoadConfig loads a definitions file. An empty path gives an empty
// configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions file: %w", err)
	}
	var config Config
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse definitions file %s: %w", path, err)
	}
	if config.MaxCalls < 0 || config.Decimals < 0 {
		return nil, fmt.Errorf("definitions file %s: max_calls and decimals must not be negative", path)
	}
	return &config, nil
}

// Build creates an evaluation context holding the configured definitions
// followed by extra function definitions and variables.
func (c *Config) Build(opt mathparser.ParseOption, defs []string, given map[string]string) (*mathparser.Context, error) {
	ctx := mathparser.NewContext()
	seen := make(map[string]bool)
	for i, src := range append(append([]string(nil), c.Functions...), defs...) {
		f, err := mathparser.ParseFormula(src, opt)
		if err != nil {
			return nil, fmt.Errorf("function %d %q: %w", i+1, src, err)
		}
		name := f.Func.Name.Val
		if seen[name] {
			return nil, fmt.Errorf("function %s: %w", name, ErrDuplicateName)
		}
		seen[name] = true
		if free := f.Func.Free(); len(free) > 0 {
			log.Warn().Str("function", f.Declaration()).Strs("free", free).Msg("function refers to names that are not parameters")
		}
		ctx.Define(f.Func)
		log.Debug().Str("function", f.Declaration()).Str("body", f.Definition()).Msg("defined function")
	}

	// Variables see only functions, so evaluate them all against a snapshot.
	funcs := ctx.Clone()
	vars := make(map[string]string, len(c.Variables)+len(given))
	for k, v := range c.Variables {
		vars[k] = v
	}
	for k, v := range given {
		vars[k] = v
	}
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("variable %s: %w", name, ErrDuplicateName)
		}
		r, err := mathparser.Eval(funcs, vars[name], nil, opt)
		if err != nil {
			return nil, fmt.Errorf("variable %s = %q: %w", name, vars[name], err)
		}
		ctx.Set(name, r)
		log.Debug().Str("variable", name).Str("value", r.RatString()).Msg("set variable")
	}
	return ctx, nil
}

// parseGiven splits name=expression pairs.
func parseGiven(given []string) (map[string]string, error) {
	m := make(map[string]string, len(given))
	for _, s := range given {
		name, expr, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w, not %q", ErrBadGiven, s)
		}
		m[name] = strings.TrimSpace(expr)
	}
	return m, nil
}
