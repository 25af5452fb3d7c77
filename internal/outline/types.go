package outline

// FunctionRecord describes one function declaration.
type FunctionRecord struct {
	Name      string   `json:"name"`
	Params    []string `json:"params"` // positional parameter names, source order
	StartLine int      `json:"start"`  // 1-based
	EndLine   int      `json:"end"`    // 1-based, inclusive
}

// ClassRecord describes one class declaration.
type ClassRecord struct {
	Name      string `json:"name"`
	StartLine int    `json:"start"`
	EndLine   int    `json:"end"`
}

// Result is the outline of a single file.
// Records appear in traversal order: every declaration at one nesting depth
// precedes the declarations nested below it.
type Result struct {
	Functions []FunctionRecord `json:"functions"`
	Classes   []ClassRecord    `json:"classes"`
}

// ErrorRecord is emitted in place of a Result when extraction fails.
type ErrorRecord struct {
	Error string `json:"error"`
}

// newResult returns a Result whose slices encode as [] rather than null.
func newResult() *Result {
	return &Result{
		Functions: []FunctionRecord{},
		Classes:   []ClassRecord{},
	}
}
