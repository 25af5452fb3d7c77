package outline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Backend produces outlines. Implementations must be safe for concurrent use.
type Backend interface {
	// ExtractFile reads path once and outlines its content.
	ExtractFile(ctx context.Context, path string) (*Result, error)

	// Extract outlines source that has already been read.
	Extract(ctx context.Context, source []byte) (*Result, error)
}

type options struct {
	includeAsync bool
}

// Option configures a Backend.
type Option func(*options)

// WithIncludeAsync makes "async def" functions count as functions.
// They are skipped by default.
func WithIncludeAsync(include bool) Option {
	return func(o *options) {
		o.includeAsync = include
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Extractor outlines Python source with tree-sitter.
// It holds no per-call state; each call gets its own parser.
type Extractor struct {
	language *sitter.Language
	opts     options
}

// NewExtractor creates a tree-sitter backed Extractor.
func NewExtractor(opts ...Option) *Extractor {
	return &Extractor{
		language: sitter.NewLanguage(python.Language()),
		opts:     buildOptions(opts),
	}
}

// ExtractFile reads the whole file and outlines it.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := e.Extract(ctx, source)
	if errors.Is(err, ErrNotText) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, err
}

// Extract parses source and collects every function and class declaration
// in breadth-first order.
func (e *Extractor) Extract(ctx context.Context, source []byte) (*Result, error) {
	source, err := normalizeSource(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to load python grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New("failed to parse python source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstErrorNode(root); bad != nil {
		pos := bad.StartPosition()
		return nil, &SyntaxError{
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
		}
	}

	result := newResult()
	err = walkBreadthFirst(ctx, root, func(n *sitter.Node) {
		switch n.Kind() {
		case "function_definition":
			if isAsync(n) && !e.opts.includeAsync {
				return
			}
			if fn, ok := functionRecord(n, source); ok {
				result.Functions = append(result.Functions, fn)
			}
		case "class_definition":
			if cls, ok := classRecord(n, source); ok {
				result.Classes = append(result.Classes, cls)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func functionRecord(node *sitter.Node, source []byte) (FunctionRecord, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return FunctionRecord{}, false
	}

	start, end := lineSpan(node)
	return FunctionRecord{
		Name:      nameNode.Utf8Text(source),
		Params:    positionalParams(node.ChildByFieldName("parameters"), source),
		StartLine: start,
		EndLine:   end,
	}, true
}

func classRecord(node *sitter.Node, source []byte) (ClassRecord, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ClassRecord{}, false
	}

	start, end := lineSpan(node)
	return ClassRecord{
		Name:      nameNode.Utf8Text(source),
		StartLine: start,
		EndLine:   end,
	}, true
}

// lineSpan returns the 1-based inclusive lines a node covers. The end is
// taken from the last token that is not a comment, since tree-sitter lets a
// block swallow trailing comments that Python's end_lineno leaves out.
func lineSpan(node *sitter.Node) (int, int) {
	startPos := node.StartPosition()
	endPos := lastToken(node).EndPosition()

	start := int(startPos.Row) + 1
	end := int(endPos.Row) + 1
	if endPos.Column == 0 && endPos.Row > startPos.Row {
		end--
	}
	return start, end
}

// lastToken descends through the last non-comment child of each level.
func lastToken(node *sitter.Node) *sitter.Node {
	for {
		var last *sitter.Node
		for i := node.ChildCount(); i > 0; i-- {
			child := node.Child(i - 1)
			if child != nil && child.Kind() != "comment" {
				last = child
				break
			}
		}
		if last == nil {
			return node
		}
		node = last
	}
}

// isAsync reports whether a function_definition starts with the "async" keyword.
func isAsync(node *sitter.Node) bool {
	first := node.Child(0)
	return first != nil && first.Kind() == "async"
}

// normalizeSource drops a UTF-8 byte order mark and rejects non-text content.
func normalizeSource(source []byte) ([]byte, error) {
	source = bytes.TrimPrefix(source, utf8BOM)
	if !utf8.Valid(source) {
		return nil, ErrNotText
	}
	return source, nil
}
