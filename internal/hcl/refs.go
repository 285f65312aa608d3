package hcl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// traversalKey returns a canonical rendering of t, e.g. env.HOME.
func traversalKey(t hcl.Traversal) string {
	return strings.TrimSpace(string(hclwrite.TokensForTraversal(t).Bytes()))
}

// checkExpression rejects references to anything but the variables of
// evalCtx and calls to functions it does not define, before evaluation, so
// that the error names every offender at once.
func checkExpression(expr hcl.Expression, evalCtx *hcl.EvalContext) error {
	refs, funcs := referencesAndFunctions(expr)

	var problems []string
	for _, ref := range refs {
		if _, ok := evalCtx.Variables[ref.RootName()]; !ok {
			problems = append(problems, fmt.Sprintf("unsupported reference '%s'", traversalKey(ref)))
		}
	}
	for _, name := range funcs {
		if _, ok := evalCtx.Functions[name]; !ok {
			problems = append(problems, fmt.Sprintf("unknown function '%s'", name))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s (available: env.*, %s)", strings.Join(problems, "; "), strings.Join(functionNames(evalCtx), ", "))
}

func functionNames(evalCtx *hcl.EvalContext) []string {
	names := make([]string, 0, len(evalCtx.Functions))
	for name := range evalCtx.Functions {
		names = append(names, name+"()")
	}
	sort.Strings(names)
	return names
}

// referencesAndFunctions returns the unique variable traversals and function
// calls of expr, each sorted.
func referencesAndFunctions(expr hcl.Expression) ([]hcl.Traversal, []string) {
	if expr == nil {
		return nil, nil
	}

	traversals := make(map[string]hcl.Traversal)
	for _, t := range expr.Variables() {
		traversals[traversalKey(t)] = t
	}
	functions := make(map[string]struct{})
	if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
		collectCalls(syntaxExpr, functions)
	}

	keys := make([]string, 0, len(traversals))
	for k := range traversals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	refs := make([]hcl.Traversal, 0, len(keys))
	for _, k := range keys {
		refs = append(refs, traversals[k])
	}

	names := make([]string, 0, len(functions))
	for f := range functions {
		names = append(names, f)
	}
	sort.Strings(names)
	return refs, names
}

// collectCalls records the name of every function called anywhere under
// expr, including inside templates, for expressions and traversal sources.
func collectCalls(expr hclsyntax.Expression, into map[string]struct{}) {
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			into[call.Name] = struct{}{}
		}
		return nil
	})
}
