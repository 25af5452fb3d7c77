package docgen

import (
	"fmt"
	"regexp"
	"strings"
)

const noDescription = "No description provided"

var codingCookie = regexp.MustCompile(`^#.*coding[:=]\s*[-\w.]+`)

// propertyAssignment matches "self.name = ..." and "self.name: T = ...".
var propertyAssignment = regexp.MustCompile(`^\s*self\.(\w+)\s*(?::[^=]+)?=(?:[^=]|$)`)

type phrase struct {
	pattern *regexp.Regexp
	text    string
}

var behaviorTraits = []phrase{
	{regexp.MustCompile(`\b(if|elif|else)\b`), "contains conditional logic"},
	{regexp.MustCompile(`\b(for|while)\b`), "includes looping or iteration"},
	{regexp.MustCompile(`\b(try|except|raise)\b`), "handles errors or exceptions"},
	{regexp.MustCompile(`\breturn[ \t]+\S|\byield\b`), "returns a value"},
	{regexp.MustCompile(`\b(await|async)\b`), "performs asynchronous operations"},
}

var functionPurposes = []phrase{
	{regexp.MustCompile(`(?i)\b(requests|urllib|httpx?|aiohttp|fetch|socket)\b`), "interact with an external API or service"},
	{regexp.MustCompile(`\b(open|os\.path|pathlib|shutil)\b|\.(read|write|readlines|writelines)\(`), "perform file system operations"},
	{regexp.MustCompile(`\b(math|calculate|sum|statistics|round)\b`), "perform mathematical calculations"},
}

var classPurposes = []phrase{
	{regexp.MustCompile(`(?i)\b(render|component|view|widget|template)\b`), "be a UI component or view"},
	{regexp.MustCompile(`(?i)\b(model|schema|table|field|record|dataclass)\b`), "represent a data model or structure"},
	{regexp.MustCompile(`(?i)\b(service|api|client|request|session)\b`), "provide a service or API interface"},
}

// overview collects the comment block at the top of the file, skipping the
// shebang and encoding lines, followed by the module docstring.
func overview(lines []string) []string {
	var out []string

	i := 0
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		if (i == 0 && strings.HasPrefix(trimmed, "#!")) || codingCookie.MatchString(trimmed) {
			continue
		}
		if text := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); text != "" {
			out = append(out, text)
		}
	}

	if doc, _ := splitDocstring(lines[i:]); doc != "" {
		out = append(out, doc)
	}
	return out
}

// imports returns the import statements of the file once each.
func imports(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(codePart(line))
		isImport := strings.HasPrefix(trimmed, "import ") ||
			(strings.HasPrefix(trimmed, "from ") && strings.Contains(trimmed, " import "))
		if !isImport || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}

// scanLine tracks bracket depth across line and returns the new depth and
// the index of the first ':' outside brackets, or -1. String contents and
// comments are skipped.
func scanLine(line string, depth int) (int, int) {
	colon := -1
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '#':
			return depth, colon
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && colon < 0 {
				colon = i
			}
		}
	}
	return depth, colon
}

// codePart drops a trailing comment from line.
func codePart(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
		} else if c == '#' {
			return line[:i]
		}
	}
	return line
}

// headerLength returns how many lines of span the def or class header
// takes, which is at least one for a non-empty span.
func headerLength(span []string) int {
	depth := 0
	for i, line := range span {
		var colon int
		depth, colon = scanLine(line, depth)
		if colon >= 0 {
			return i + 1
		}
	}
	if len(span) > 0 {
		return 1
	}
	return 0
}

// joinHeader puts a header on one line and cuts it at the colon that ends it.
func joinHeader(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		piece := strings.TrimSpace(codePart(line))
		if piece == "" {
			continue
		}
		if b.Len() > 0 {
			prev := b.String()[b.Len()-1]
			if prev != '(' && prev != '[' && piece[0] != ')' && piece[0] != ']' {
				b.WriteByte(' ')
			}
		}
		b.WriteString(piece)
	}

	text := b.String()
	if _, colon := scanLine(text, 0); colon >= 0 {
		text = text[:colon]
	}
	return strings.TrimSpace(text)
}

// openDocstring reports whether trimmed starts a triple-quoted string and
// returns the quote and the text after it.
func openDocstring(trimmed string) (string, string, bool) {
	rest := strings.TrimLeft(trimmed, "rRuUbBfF")
	if len(trimmed)-len(rest) > 2 {
		return "", "", false
	}
	for _, quote := range []string{`"""`, `'''`} {
		if strings.HasPrefix(rest, quote) {
			return quote, rest[len(quote):], true
		}
	}
	return "", "", false
}

// splitDocstring separates a leading docstring from the rest of body.
func splitDocstring(body []string) (string, []string) {
	for i, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		quote, rest, ok := openDocstring(trimmed)
		if !ok {
			return "", body
		}

		var parts []string
		for j := i; j < len(body); j++ {
			text := rest
			if j > i {
				text = strings.TrimSpace(body[j])
			}
			if k := strings.Index(text, quote); k >= 0 {
				parts = append(parts, strings.TrimSpace(text[:k]))
				code := append(append([]string{}, body[:i]...), body[j+1:]...)
				return strings.TrimSpace(strings.Join(parts, "\n")), code
			}
			parts = append(parts, strings.TrimSpace(text))
		}
		return "", body
	}
	return "", body
}

// returnAnnotation returns the "-> T" annotation of a function header.
func returnAnnotation(header string) string {
	idx := strings.LastIndex(header, "->")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(header[idx+2:])
}

// paramDescription finds the docstring entry for a parameter in Google
// ("name (type): text") or Sphinx (":param name: text") style.
func paramDescription(docstring, name string) string {
	if docstring == "" {
		return noDescription
	}

	quoted := regexp.QuoteMeta(name)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*:param\s+(?:[^:\s]+\s+)?` + quoted + `\s*:\s*(.+)$`),
		regexp.MustCompile(`(?m)^\s*\**` + quoted + `\s*(?:\([^)]*\))?\s*:\s*(.+)$`),
	}
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(docstring); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return noDescription
}

// codeText joins the lines of code that are not comments.
func codeText(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		code := strings.TrimSpace(codePart(line))
		if code == "" {
			continue
		}
		b.WriteString(code)
		b.WriteByte('\n')
	}
	return b.String()
}

// describeBehavior summarizes what a function body does from its keywords.
func describeBehavior(kind string, code []string) string {
	text := codeText(code)

	var traits []string
	for _, trait := range behaviorTraits {
		if trait.pattern.MatchString(text) {
			traits = append(traits, trait.text)
		}
	}

	purpose := inferPurpose(text, functionPurposes, "process data or perform a specific task")
	if len(traits) == 0 {
		return fmt.Sprintf("This %s appears to %s.", kind, purpose)
	}
	return fmt.Sprintf("This %s %s. It appears to %s.", kind, joinPhrases(traits), purpose)
}

// describeClass summarizes a class from its size and vocabulary.
func describeClass(span []string, methods, props int) string {
	purpose := inferPurpose(strings.Join(span, "\n"), classPurposes, "encapsulate related functionality and data")

	var parts []string
	if methods > 0 {
		parts = append(parts, fmt.Sprintf("provides %s", plural(methods, "method", "methods")))
	}
	if props > 0 {
		parts = append(parts, fmt.Sprintf("manages %s", plural(props, "property", "properties")))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("This class appears to %s.", purpose)
	}
	return fmt.Sprintf("This class %s. It appears to %s.", joinPhrases(parts), purpose)
}

func inferPurpose(text string, purposes []phrase, fallback string) string {
	for _, purpose := range purposes {
		if purpose.pattern.MatchString(text) {
			return purpose.text
		}
	}
	return fallback
}

// properties lists the attributes assigned through self in a class body,
// noting the methods that assign them.
func properties(body []string, firstLine int, methods []Function) []Property {
	var order []string
	owners := make(map[string][]string)
	seen := make(map[string]bool)

	for i, line := range body {
		m := propertyAssignment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := "self." + m[1]
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}

		lineNo := firstLine + i
		for _, fn := range methods {
			if lineNo >= fn.StartLine && lineNo <= fn.EndLine && !contains(owners[name], fn.Name) {
				owners[name] = append(owners[name], fn.Name)
			}
		}
	}

	out := make([]Property, 0, len(order))
	for _, name := range order {
		desc := "Stores data relevant to the class's functionality."
		if len(owners[name]) > 0 {
			quoted := make([]string, len(owners[name]))
			for i, owner := range owners[name] {
				quoted[i] = "`" + owner + "`"
			}
			desc = "Set in " + joinPhrases(quoted) + "."
		}
		out = append(out, Property{Name: name, Description: desc})
	}
	return out
}

// joinPhrases joins items as "a", "a and b" or "a, b and c".
func joinPhrases(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
