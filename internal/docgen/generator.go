package docgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/py-outline/internal/outline"
)

// ErrUnsupportedFile indicates the path does not name a Python source file.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Generator documents Python files from their outlines.
type Generator struct {
	backend outline.Backend
}

// NewGenerator creates a Generator that outlines files with backend.
func NewGenerator(backend outline.Backend) *Generator {
	return &Generator{backend: backend}
}

// Generate reads path, outlines it and builds its Document.
func (g *Generator) Generate(ctx context.Context, path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyi":
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := g.backend.Extract(ctx, source)
	if errors.Is(err, outline.ErrNotText) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		return nil, err
	}

	return Build(filepath.Base(path), source, result), nil
}
