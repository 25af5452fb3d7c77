package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/py-outline/internal/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Server:
// - serve returns when stdin reaches EOF
// - serve returns promptly when the context is cancelled while stdin is idle
// - tools/list over stdio advertises python_outline

// syncWriter collects server output written from another goroutine.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func newTestServer() *Server {
	return NewServer(outline.NewExtractor(), outline.StylePython, "test")
}

func TestServer_StopsOnEOF(t *testing.T) {
	// Note: Cannot use t.Parallel() because mcp-go shares one stdio session

	var out bytes.Buffer
	err := newTestServer().serve(context.Background(), strings.NewReader(""), &out)
	assert.NoError(t, err)
}

func TestServer_StopsOnContextCancel(t *testing.T) {
	// Note: Cannot use t.Parallel() because mcp-go shares one stdio session

	// The pipe is never written, so only cancellation can end serve.
	stdin, stdinWriter := io.Pipe()
	defer stdinWriter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newTestServer().serve(ctx, stdin, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServer_ListsOutlineTool(t *testing.T) {
	// Note: Cannot use t.Parallel() because mcp-go shares one stdio session

	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var out syncWriter
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdin, stdinWriter := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- newTestServer().serve(ctx, stdin, &out)
	}()

	_, err := stdinWriter.Write([]byte(requests))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") >= 2
	}, 2*time.Second, 10*time.Millisecond)

	var tools []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var response struct {
			ID     int `json:"id"`
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &response))
		if response.ID != 2 {
			continue
		}
		for _, tool := range response.Result.Tools {
			tools = append(tools, tool.Name)
		}
	}
	assert.Equal(t, []string{OutlineToolName}, tools)

	stdinWriter.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after stdin closed")
	}
}
