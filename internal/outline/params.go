package outline

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// positionalParams returns the names of the positional parameters declared
// in a tree-sitter "parameters" node. Positional-only parameters are kept,
// the "/" marker is skipped, and collection stops at the first "*",
// "*args" or "**kwargs" since everything after it is keyword-only.
// Defaults and annotations are dropped.
func positionalParams(params *sitter.Node, source []byte) []string {
	names := []string{}
	if params == nil {
		return names
	}

	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}

		switch param.Kind() {
		case "identifier":
			names = append(names, param.Utf8Text(source))

		case "default_parameter", "typed_default_parameter":
			name := param.ChildByFieldName("name")
			if name != nil && name.Kind() == "identifier" {
				names = append(names, name.Utf8Text(source))
			}

		case "typed_parameter":
			// typed_parameter has no name field: the first named child is
			// the identifier, or a splat pattern for "*args: T".
			first := param.NamedChild(0)
			if first == nil {
				continue
			}
			if first.Kind() != "identifier" {
				return names
			}
			names = append(names, first.Utf8Text(source))

		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return names
		}
	}

	return names
}
