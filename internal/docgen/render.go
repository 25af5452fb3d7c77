package docgen

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
)

// Format selects how a Document is written.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatMarkdown, FormatHTML}

// Valid reports whether f is one of Formats.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Extension returns the file suffix documents of this format are saved with.
func (f Format) Extension() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

// OutputPath returns where the documentation for path is saved by default.
func OutputPath(path string, format Format) string {
	return path + format.Extension()
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc *Document, format Format) error {
	source := RenderMarkdown(doc)

	switch format {
	case FormatMarkdown:
		_, err := w.Write(source)
		return err
	case FormatHTML:
		var buf bytes.Buffer
		if err := goldmark.New().Convert(source, &buf); err != nil {
			return fmt.Errorf("failed to render html: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unknown docs format %q", format)
	}
}

// RenderMarkdown lays doc out as a Markdown page.
func RenderMarkdown(doc *Document) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Documentation for %s\n\n", doc.Name)

	if len(doc.Overview) > 0 {
		b.WriteString("## Overview\n\n")
		b.WriteString(strings.Join(doc.Overview, "\n\n"))
		b.WriteString("\n\n")
	}

	if len(doc.Imports) > 0 {
		b.WriteString("## Dependencies\n\n")
		b.WriteString("This file relies on the following external modules:\n\n")
		for _, imp := range doc.Imports {
			fmt.Fprintf(&b, "- `%s`\n", imp)
		}
		b.WriteString("\n")
	}

	if len(doc.Functions) > 0 {
		b.WriteString("## Functions\n\n")
		for _, fn := range doc.Functions {
			writeFunction(&b, fn)
		}
	}

	if len(doc.Classes) > 0 {
		b.WriteString("## Classes\n\n")
		for _, cls := range doc.Classes {
			writeClass(&b, cls)
		}
	}

	return append(bytes.TrimRight(b.Bytes(), "\n"), '\n')
}

func writeFunction(b *bytes.Buffer, fn Function) {
	fmt.Fprintf(b, "### %s\n\n", fn.Name)
	fmt.Fprintf(b, "```python\n%s\n```\n\n", fn.Signature)
	fmt.Fprintf(b, "Lines %d-%d\n\n", fn.StartLine, fn.EndLine)

	if fn.Description != "" {
		b.WriteString(fn.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("**Parameters:**\n\n")
	if len(fn.Params) == 0 {
		b.WriteString("This function does not take any parameters.\n\n")
	} else {
		for _, p := range fn.Params {
			fmt.Fprintf(b, "- `%s`: %s\n", p.Name, p.Description)
		}
		b.WriteString("\n")
	}

	if fn.Returns != "" {
		fmt.Fprintf(b, "**Returns:** `%s`\n\n", fn.Returns)
	}

	fmt.Fprintf(b, "**Functionality:** %s\n\n", fn.Behavior)
}

func writeClass(b *bytes.Buffer, cls Class) {
	fmt.Fprintf(b, "### %s\n\n", cls.Name)
	fmt.Fprintf(b, "Lines %d-%d\n\n", cls.StartLine, cls.EndLine)

	if cls.Description != "" {
		b.WriteString(cls.Description)
		b.WriteString("\n\n")
	}

	if len(cls.Methods) > 0 {
		b.WriteString("**Methods:**\n\n")
		for _, m := range cls.Methods {
			fmt.Fprintf(b, "- `%s`: %s\n", m.Signature, m.Behavior)
		}
		b.WriteString("\n")
	}

	if len(cls.Properties) > 0 {
		b.WriteString("**Properties:**\n\n")
		for _, p := range cls.Properties {
			fmt.Fprintf(b, "- `%s`: %s\n", p.Name, p.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "**Purpose:** %s\n\n", cls.Purpose)
}
