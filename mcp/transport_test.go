package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork-ai/codesight/jsonrpc"
)

type mockHandler struct {
	handleFunc func(context.Context, jsonrpc.Request) jsonrpc.Response
}

func (m *mockHandler) Handle(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	return m.handleFunc(ctx, req)
}

func TestStdioTransportRun(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		mockResponse jsonrpc.Response
		expectedOut  string
	}{
		{
			name:  "successful request",
			input: `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`,
			mockResponse: jsonrpc.NewResponse(1, map[string]interface{}{
				"tools": []interface{}{},
			}, nil),
			expectedOut: `{"jsonrpc":"2.0","result":{"tools":[]},"id":1}
`,
		},
		{
			name:  "invalid JSON answered in-band",
			input: `{"jsonrpc": "2.0" method: invalid}`,
			expectedOut: `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error","data":"invalid character 'm' after object key:value pair"},"id":0}
`,
		},
		{
			name: "multiple requests",
			input: `{"jsonrpc": "2.0", "method": "ping", "id": 1}
{"jsonrpc": "2.0", "method": "ping", "id": 2}`,
			mockResponse: jsonrpc.NewResponse(0, "pong", nil),
			expectedOut: `{"jsonrpc":"2.0","result":"pong","id":0}
{"jsonrpc":"2.0","result":"pong","id":0}
`,
		},
		{
			name:        "notification gets no response",
			input:       `{"jsonrpc": "2.0", "method": "notifications/initialized"}`,
			expectedOut: "",
		},
		{
			name:        "empty input",
			input:       "",
			expectedOut: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				handleFunc: func(context.Context, jsonrpc.Request) jsonrpc.Response {
					return tt.mockResponse
				},
			}

			input := tt.input
			if input != "" && !strings.HasSuffix(input, "\n") {
				input += "\n"
			}

			in := strings.NewReader(input)
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}

			transport := NewStdioTransport(handler, in, out, errOut)
			err := transport.Run(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOut, out.String())
		})
	}
}

func TestStdioTransportContextCancellation(t *testing.T) {
	handler := &mockHandler{
		handleFunc: func(context.Context, jsonrpc.Request) jsonrpc.Response {
			return jsonrpc.Response{}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A blocked reader is never consulted once the context is done
	transport := NewStdioTransport(handler, blockedReader{}, &bytes.Buffer{}, &bytes.Buffer{})
	err := transport.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	select {}
}

func TestStdioTransportIntegration(t *testing.T) {
	server := newTestServer(t)

	input := `{"jsonrpc": "2.0", "method": "tools/call", "params": {"name": "greet", "arguments": {"name": "World"}}, "id": 1}
`
	in := strings.NewReader(input)
	out := &bytes.Buffer{}

	transport := NewStdioTransport(server, in, out, &bytes.Buffer{})
	require.NoError(t, transport.Run(context.Background()))

	var response jsonrpc.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &response))
	assert.Equal(t, "2.0", response.Version)
	assert.True(t, response.ID.Equal(1))
	require.Nil(t, response.Error)

	result, ok := response.Result.(map[string]interface{})
	require.True(t, ok)
	content, ok := result["content"].([]interface{})
	require.True(t, ok)
	require.Len(t, content, 1)
	text := content[0].(map[string]interface{})["text"].(string)
	assert.JSONEq(t, `{"greeting": "Hello, World!"}`, text)
}
