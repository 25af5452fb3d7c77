package docgen

import (
	"bytes"
	"sort"
	"strings"

	"github.com/mvp-joe/py-outline/internal/outline"
)

// Document is the documentation of one Python file.
type Document struct {
	Name      string     // base name of the source file
	Overview  []string   // leading comment block and module docstring
	Imports   []string   // import statements, in source order
	Functions []Function // every function, in outline order
	Classes   []Class    // every class, in outline order
}

// Function documents one function or method.
type Function struct {
	Name        string
	Signature   string // header on one line, without the trailing colon
	StartLine   int
	EndLine     int
	Description string // docstring
	Params      []Param
	Returns     string // return annotation
	Behavior    string

	code []string // body without the docstring
}

// Param documents one positional parameter.
type Param struct {
	Name        string
	Description string
}

// Class documents one class.
type Class struct {
	Name        string
	StartLine   int
	EndLine     int
	Description string
	Methods     []Method
	Properties  []Property
	Purpose     string
}

// Method is a function defined directly in a class body.
type Method struct {
	Name      string
	Signature string
	Behavior  string
}

// Property is an instance attribute assigned through self.
type Property struct {
	Name        string
	Description string
}

// Build documents source using the records of its outline.
func Build(name string, source []byte, result *outline.Result) *Document {
	lines := splitLines(source)

	doc := &Document{
		Name:      name,
		Overview:  overview(lines),
		Imports:   imports(lines),
		Functions: make([]Function, 0, len(result.Functions)),
		Classes:   make([]Class, 0, len(result.Classes)),
	}

	byStart := make(map[int]Function, len(result.Functions))
	for _, rec := range result.Functions {
		fn := buildFunction(lines, rec)
		doc.Functions = append(doc.Functions, fn)
		byStart[fn.StartLine] = fn
	}

	for _, rec := range result.Classes {
		doc.Classes = append(doc.Classes, buildClass(lines, rec, byStart))
	}

	return doc
}

func buildFunction(lines []string, rec outline.FunctionRecord) Function {
	span := spanLines(lines, rec.StartLine, rec.EndLine)
	headerEnd := headerLength(span)
	header := joinHeader(span[:headerEnd])
	body := span[headerEnd:]
	docstring, code := splitDocstring(body)

	fn := Function{
		Name:        rec.Name,
		Signature:   header,
		StartLine:   rec.StartLine,
		EndLine:     rec.EndLine,
		Description: docstring,
		Params:      make([]Param, 0, len(rec.Params)),
		Returns:     returnAnnotation(header),
		Behavior:    describeBehavior("function", code),
		code:        code,
	}
	for _, name := range rec.Params {
		fn.Params = append(fn.Params, Param{
			Name:        name,
			Description: paramDescription(docstring, name),
		})
	}
	return fn
}

func buildClass(lines []string, rec outline.ClassRecord, functions map[int]Function) Class {
	span := spanLines(lines, rec.StartLine, rec.EndLine)
	headerEnd := headerLength(span)
	body := span[headerEnd:]
	docstring, _ := splitDocstring(body)

	cls := Class{
		Name:        rec.Name,
		StartLine:   rec.StartLine,
		EndLine:     rec.EndLine,
		Description: docstring,
	}

	bodyIndent := firstIndent(body)
	var methods []Function
	for i, line := range body {
		lineNo := rec.StartLine + headerEnd + i
		fn, ok := functions[lineNo]
		if ok && indentOf(line) == bodyIndent {
			methods = append(methods, fn)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].StartLine < methods[j].StartLine })

	for _, fn := range methods {
		cls.Methods = append(cls.Methods, Method{
			Name:      fn.Name,
			Signature: fn.Signature,
			Behavior:  describeBehavior("method", fn.code),
		})
	}
	cls.Properties = properties(body, rec.StartLine+headerEnd, methods)
	cls.Purpose = describeClass(span, len(cls.Methods), len(cls.Properties))
	return cls
}

// splitLines breaks source into lines without their terminators.
func splitLines(source []byte) []string {
	source = bytes.TrimPrefix(source, []byte{0xEF, 0xBB, 0xBF})
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// spanLines returns lines start..end, 1-based and inclusive, clamped to
// the file.
func spanLines(lines []string, start, end int) []string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	return lines[start-1 : end]
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// firstIndent is the indentation of the first line holding code.
func firstIndent(lines []string) int {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return indentOf(line)
	}
	return -1
}
