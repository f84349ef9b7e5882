package asm

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evaluate runs a $(...) compile-time expression as a Starlark expression.
// Integer equates and the symbols defined so far are predeclared.
func evaluate(expr string, ints map[string]int64) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	thread.SetMaxExecutionSteps(1 << 20)

	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, v := range ints {
		if !isStarlarkIdent(name) {
			continue
		}
		pred[name] = starlark.MakeInt64(v)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = &ErrExpression{Expr: expr, Err: err}
		return
	}

	switch rc := dict["rc"].(type) {
	case starlark.Int:
		var ok bool
		value, ok = rc.Int64()
		if !ok {
			err = &ErrExpression{Expr: expr, Err: ErrValueRange}
		}
	case starlark.Bool:
		if rc {
			value = 1
		}
	default:
		err = &ErrExpression{Expr: expr}
	}

	return
}

func isStarlarkIdent(name string) bool {
	if len(name) == 0 || !isIdentStart(name[0]) {
		return false
	}
	for n := 1; n < len(name); n++ {
		if !isWord(name[n]) {
			return false
		}
	}
	return true
}
