package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kluctl/go-embed-python/python"
)

// cpythonScript outlines source read from stdin with CPython's own ast
// module and prints a single JSON record.
const cpythonScript = `
import ast
import json
import sys


def outline(source, include_async):
    kinds = (ast.FunctionDef, ast.AsyncFunctionDef) if include_async else (ast.FunctionDef,)
    functions = []
    classes = []
    for node in ast.walk(ast.parse(source)):
        if isinstance(node, kinds):
            args = node.args
            functions.append({
                'name': node.name,
                'params': [a.arg for a in args.posonlyargs + args.args],
                'start': node.lineno,
                'end': node.end_lineno,
            })
        elif isinstance(node, ast.ClassDef):
            classes.append({'name': node.name, 'start': node.lineno, 'end': node.end_lineno})
    return {'functions': functions, 'classes': classes}


source = sys.stdin.buffer.read().decode('utf-8')
try:
    record = outline(source, len(sys.argv) > 1 and sys.argv[1] == 'async')
except SyntaxError as e:
    record = {'error': 'syntax', 'line': e.lineno or 0, 'column': e.offset or 0}
print(json.dumps(record))
`

// cpythonRecord is what cpythonScript prints.
type cpythonRecord struct {
	Functions []FunctionRecord `json:"functions"`
	Classes   []ClassRecord    `json:"classes"`
	Error     string           `json:"error"`
	Line      int              `json:"line"`
	Column    int              `json:"column"`
}

// CPythonBackend outlines files with the ast module of an embedded CPython
// interpreter. The interpreter is unpacked into runtimeDir on first use.
type CPythonBackend struct {
	runtimeDir string
	opts       options

	once sync.Once
	ep   *python.EmbeddedPython
	err  error
}

// NewCPythonBackend creates a backend that unpacks its interpreter under runtimeDir.
func NewCPythonBackend(runtimeDir string, opts ...Option) *CPythonBackend {
	return &CPythonBackend{
		runtimeDir: runtimeDir,
		opts:       buildOptions(opts),
	}
}

func (b *CPythonBackend) interpreter() (*python.EmbeddedPython, error) {
	b.once.Do(func() {
		b.ep, b.err = python.NewEmbeddedPythonWithTmpDir(b.runtimeDir, true)
		if b.err != nil {
			b.err = fmt.Errorf("failed to unpack embedded python: %w", b.err)
		}
	})
	return b.ep, b.err
}

// Prepare unpacks the interpreter if that has not happened yet. Extraction
// calls it implicitly.
func (b *CPythonBackend) Prepare() error {
	_, err := b.interpreter()
	return err
}

// ExtractFile reads the whole file and outlines it.
func (b *CPythonBackend) ExtractFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := b.Extract(ctx, source)
	if errors.Is(err, ErrNotText) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, err
}

// Extract pipes source to the embedded interpreter and decodes its record.
func (b *CPythonBackend) Extract(ctx context.Context, source []byte) (*Result, error) {
	source, err := normalizeSource(source)
	if err != nil {
		return nil, err
	}

	ep, err := b.interpreter()
	if err != nil {
		return nil, err
	}

	mode := "sync"
	if b.opts.includeAsync {
		mode = "async"
	}
	cmd, err := ep.PythonCmd("-c", cpythonScript, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create python command: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start python: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("python process failed: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
	}

	return decodeCPythonRecord(stdout.Bytes())
}

func decodeCPythonRecord(data []byte) (*Result, error) {
	var record cpythonRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode python output: %w", err)
	}

	switch record.Error {
	case "":
	case "syntax":
		return nil, &SyntaxError{Line: record.Line, Column: record.Column}
	default:
		return nil, errors.New(record.Error)
	}

	result := newResult()
	if record.Functions != nil {
		result.Functions = record.Functions
	}
	if record.Classes != nil {
		result.Classes = record.Classes
	}
	for i := range result.Functions {
		if result.Functions[i].Params == nil {
			result.Functions[i].Params = []string{}
		}
	}
	return result, nil
}
