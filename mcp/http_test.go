package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork-ai/codesight/jsonrpc"
)

func postRPC(t *testing.T, ts *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/mcp", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeRPC(t *testing.T, resp *http.Response) jsonrpc.Response {
	t.Helper()
	defer resp.Body.Close()
	var response jsonrpc.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return response
}

func TestHTTPTransport(t *testing.T) {
	server := newTestServer(t)
	transport := NewHTTPTransport(server)
	ts := httptest.NewServer(transport.Router())
	defer ts.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "ok", health["status"])
	})

	t.Run("tools list", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		response := decodeRPC(t, resp)
		require.Nil(t, response.Error)
		result := response.Result.(map[string]interface{})
		assert.Len(t, result["tools"], 2)
	})

	t.Run("tools call", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/call", "params": {"name": "greet", "arguments": {"name": "web"}}, "id": 2}`, nil)
		response := decodeRPC(t, resp)
		require.Nil(t, response.Error)
		assert.True(t, response.ID.Equal(2))
	})

	t.Run("parse error answered in-band", func(t *testing.T) {
		resp := postRPC(t, ts, `{not json`, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		response := decodeRPC(t, resp)
		require.NotNil(t, response.Error)
		assert.Equal(t, jsonrpc.ErrParse, response.Error.Code)
	})

	t.Run("notification accepted without body", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "notifications/initialized"}`, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("requests are independent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/call", "params": {"name": "fail"}, "id": 3}`, nil)
			response := decodeRPC(t, resp)
			require.Nil(t, response.Error)
			result := response.Result.(map[string]interface{})
			assert.Equal(t, true, result["isError"])
		}
	})
}

func TestHTTPTransportAuth(t *testing.T) {
	server := newTestServer(t)
	transport := NewHTTPTransport(server, WithBearerToken("sekret"))
	ts := httptest.NewServer(transport.Router())
	defer ts.Close()

	t.Run("rejects missing token", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`, map[string]string{
			"Authorization": "Bearer wrong",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts bearer token", func(t *testing.T) {
		resp := postRPC(t, ts, `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`, map[string]string{
			"Authorization": "Bearer sekret",
		})
		response := decodeRPC(t, resp)
		assert.Nil(t, response.Error)
	})

	t.Run("health stays open", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestHTTPTransportCustomPath(t *testing.T) {
	server := newTestServer(t)
	transport := NewHTTPTransport(server, WithPath("/rpc"))
	ts := httptest.NewServer(transport.Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/rpc",
		bytes.NewReader([]byte(`{"jsonrpc": "2.0", "method": "ping", "id": 1}`)))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
