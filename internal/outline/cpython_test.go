package outline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCPythonRecord(t *testing.T) {
	t.Parallel()

	result, err := decodeCPythonRecord([]byte(`{"functions": [{"name": "f", "params": ["a"], "start": 1, "end": 2}], "classes": []}`))
	require.NoError(t, err)
	assert.Equal(t, []FunctionRecord{{Name: "f", Params: []string{"a"}, StartLine: 1, EndLine: 2}}, result.Functions)
	assert.NotNil(t, result.Classes)

	_, err = decodeCPythonRecord([]byte(`{"error": "syntax", "line": 3, "column": 7}`))
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 3, syntaxErr.Line)
	assert.Equal(t, 7, syntaxErr.Column)

	_, err = decodeCPythonRecord([]byte(`not json`))
	assert.Error(t, err)
}

// TestCPythonBackend_MatchesTreeSitter unpacks the embedded interpreter, which
// takes a while on first run.
func TestCPythonBackend_MatchesTreeSitter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded python test in short mode")
	}

	ctx := context.Background()
	backend := NewCPythonBackend(t.TempDir(), WithIncludeAsync(true))
	require.NoError(t, backend.Prepare())
	reference := NewExtractor(WithIncludeAsync(true))

	for _, name := range []string{"simple.py", "params.py", "function.py", "class.py", "empty.py", "elif.py", "trailing_comment.py"} {
		want, err := reference.ExtractFile(ctx, fixture(name))
		require.NoError(t, err, name)

		got, err := backend.ExtractFile(ctx, fixture(name))
		require.NoError(t, err, name)

		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"invalid.py", "python2_print.py", "python2_exec.py"} {
		_, err := backend.ExtractFile(ctx, fixture(name))
		assert.ErrorIs(t, err, ErrSyntax, name)
	}
}
