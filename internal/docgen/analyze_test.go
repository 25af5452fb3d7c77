package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderLength_MultiLine(t *testing.T) {
	t.Parallel()

	span := []string{
		"def connect(",
		"    host: str,",
		"    port: int = 80,  # default: http",
		") -> Dict[str, int]:",
		"    return {}",
	}
	assert.Equal(t, 4, headerLength(span))
	assert.Equal(t, "def connect(host: str, port: int = 80,) -> Dict[str, int]", joinHeader(span[:4]))
}

func TestHeaderLength_OneLineBody(t *testing.T) {
	t.Parallel()

	span := []string{"def f(a): return a"}
	assert.Equal(t, 1, headerLength(span))
	assert.Equal(t, "def f(a)", joinHeader(span))
	assert.Equal(t, 0, headerLength(nil))
}

func TestJoinHeader_ColonInString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `def f(sep=":")`, joinHeader([]string{`def f(sep=":"):`}))
	assert.Equal(t, "def f(key=lambda x: x)", joinHeader([]string{"def f(key=lambda x: x):"}))
}

func TestSplitDocstring(t *testing.T) {
	t.Parallel()

	doc, code := splitDocstring([]string{
		`    r'''Raw docstring.'''`,
		"    return 1",
	})
	assert.Equal(t, "Raw docstring.", doc)
	assert.Equal(t, []string{"    return 1"}, code)

	doc, code = splitDocstring([]string{`    x = """not a docstring"""`})
	assert.Empty(t, doc)
	assert.Len(t, code, 1)

	doc, _ = splitDocstring([]string{`    """Never closed`, "    pass"})
	assert.Empty(t, doc)
}

func TestParamDescription(t *testing.T) {
	t.Parallel()

	sphinx := "Send a message.\n:param str channel: Where to send it.\n:param body: The text."
	assert.Equal(t, "Where to send it.", paramDescription(sphinx, "channel"))
	assert.Equal(t, "The text.", paramDescription(sphinx, "body"))
	assert.Equal(t, noDescription, paramDescription(sphinx, "retries"))

	google := "Args:\n*args: Extra values.\ncount (int, optional): How many."
	assert.Equal(t, "How many.", paramDescription(google, "count"))
	assert.Equal(t, noDescription, paramDescription("", "count"))
}

func TestDescribeBehavior(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code []string
		want string
	}{
		{
			name: "async network call",
			code: []string{"async with aiohttp.ClientSession() as s:", "    return await s.get(url)"},
			want: "This function returns a value and performs asynchronous operations. It appears to interact with an external API or service.",
		},
		{
			name: "calculation in a loop",
			code: []string{"total = 0", "while items:", "    total += round(items.pop())"},
			want: "This function includes looping or iteration. It appears to perform mathematical calculations.",
		},
		{
			name: "keywords in comments are ignored",
			code: []string{"# if we ever return here, retry", "pass"},
			want: "This function appears to process data or perform a specific task.",
		},
		{
			name: "bare return",
			code: []string{"return"},
			want: "This function appears to process data or perform a specific task.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeBehavior("function", tt.code))
		})
	}
}

func TestDescribeClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "This class provides 1 method. It appears to be a UI component or view.",
		describeClass([]string{"class Button(Widget):", "    def render(self): pass"}, 1, 0))
	assert.Equal(t, "This class manages 1 property. It appears to provide a service or API interface.",
		describeClass([]string{"class Client:", "    pass"}, 0, 1))
}

func TestProperties_AnnotatedAndAugmented(t *testing.T) {
	t.Parallel()

	body := []string{
		"    limit: int = 3",
		"    def reset(self):",
		"        self.count: int = 0",
		"        self.count += 1",
		"        self.flag == True",
	}
	methods := []Function{{Name: "reset", StartLine: 11, EndLine: 14}}

	assert.Equal(t, []Property{{Name: "self.count", Description: "Set in `reset`."}}, properties(body, 10, methods))
}

func TestJoinPhrases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", joinPhrases(nil))
	assert.Equal(t, "a", joinPhrases([]string{"a"}))
	assert.Equal(t, "a and b", joinPhrases([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", joinPhrases([]string{"a", "b", "c"}))
}
