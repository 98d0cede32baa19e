// Package filterexpr compiles boolean entry predicates for the --filter
// flag using the expr expression language.
package filterexpr

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Entry is the expression environment, one diff fact per evaluation.
// Field names are what filter expressions reference, e.g.
//
//	Category == "kernel-config" && Key startsWith "CONFIG_NET"
type Entry struct {
	Category string
	Bucket   string
	Package  string
	Key      string
	Value    string
	From     string
	To       string
}

// Filter is a compiled predicate.
type Filter struct {
	prog *vm.Program
}

// Compile builds a predicate from source. Bad expressions are rejected
// here, before any input file is read.
func Compile(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.Env(Entry{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{prog: prog}, nil
}

// Match evaluates the predicate against one entry.
func (f *Filter) Match(e Entry) (bool, error) {
	out, err := expr.Run(f.prog, e)
	if err != nil {
		return false, fmt.Errorf("evaluating filter: %w", err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter expression returned %T, want bool", out)
	}
	return ok, nil
}
