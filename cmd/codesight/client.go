package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"

	"github.com/loopwork-ai/codesight/internal"
	"github.com/loopwork-ai/codesight/jsonrpc"
	"github.com/loopwork-ai/codesight/mcp"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools of a running codesight HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := rpc(cmd.Context(), "tools/list", struct{}{})
		if err != nil {
			return err
		}

		var list mcp.ToolsListResponse
		if err := decodeResult(response.Result, &list); err != nil {
			return err
		}

		for _, t := range list.Tools {
			fmt.Printf("%s\n", t.Name)
			if t.Description != "" {
				fmt.Printf("  %s\n", t.Description)
			}
		}
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke a tool on a running codesight HTTP server",
	Long: `Invoke a tool by name, passing arguments as repeated --arg key=value
flags. Values that parse as JSON are sent typed; everything else is sent
as a string.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arguments := map[string]interface{}{}
		for _, pair := range callArgs {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --arg %q, expected key=value", pair)
			}
			var parsed interface{}
			if err := json.Unmarshal([]byte(value), &parsed); err == nil {
				arguments[key] = parsed
			} else {
				arguments[key] = value
			}
		}

		response, err := rpc(cmd.Context(), "tools/call", mcp.ToolCallParams{
			Name:      args[0],
			Arguments: arguments,
		})
		if err != nil {
			return err
		}

		var result mcp.CallToolResult
		if err := decodeResult(response.Result, &result); err != nil {
			return err
		}

		for _, content := range result.Content {
			fmt.Println(content.Text)
		}
		if result.IsError {
			return fmt.Errorf("tool %s failed", args[0])
		}
		return nil
	},
}

var (
	serverURL string
	auth      string
	retries   int
	timeout   time.Duration
	callArgs  []string
)

func init() {
	for _, cmd := range []*cobra.Command{toolsCmd, callCmd} {
		cmd.Flags().StringVar(&serverURL, "url", "http://localhost:4280/mcp", "URL of the codesight HTTP endpoint")
		cmd.Flags().StringVar(&auth, "auth", "", "Authorization header value (e.g. 'Bearer token123')")
		cmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for failed requests")
		cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	}
	callCmd.Flags().StringArrayVar(&callArgs, "arg", nil, "Tool argument as key=value (repeatable)")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
}

func newHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	if auth != "" {
		retryClient.HTTPClient.Transport = &internal.HeaderTransport{
			Headers: http.Header{"Authorization": []string{auth}},
		}
	}

	return retryClient.StandardClient()
}

// rpc sends a single JSON-RPC request to the configured endpoint and
// returns the decoded response. A JSON-RPC error in the response is
// returned as an error.
func rpc(ctx context.Context, method string, params interface{}) (*jsonrpc.Response, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("error encoding params: %w", err)
	}

	body, err := json.Marshal(jsonrpc.NewRequest(method, raw, 1))
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling %s: %w", serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from %s: %s", serverURL, resp.Status)
	}

	var response jsonrpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if response.Error != nil {
		if response.Error.Data != nil {
			return nil, fmt.Errorf("server error: %s (%v)", response.Error.Message, response.Error.Data)
		}
		return nil, fmt.Errorf("server error: %s", response.Error.Message)
	}

	return &response, nil
}

// decodeResult converts a decoded JSON-RPC result back into a typed value.
func decodeResult(result interface{}, v interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error re-encoding result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error decoding result: %w", err)
	}
	return nil
}
