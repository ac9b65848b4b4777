// Package jsonrpc implements the JSON-RPC 2.0 envelope used by both
// transports: requests, responses, IDs, and the standard error codes.
package jsonrpc

import (
	"context"
	"encoding/json"
)

// Version is the JSON-RPC protocol version
const Version = "2.0"

// Handler processes a single JSON-RPC request and produces its response.
type Handler interface {
	Handle(ctx context.Context, request Request) Response
}

// Request represents a JSON-RPC request object
type Request struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	Id      interface{}     `json:"id,omitempty"`
}

// NewRequest creates a new Request object
func NewRequest(method string, params json.RawMessage, id interface{}) Request {
	return Request{
		Version: Version,
		Method:  method,
		Params:  params,
		Id:      id,
	}
}

// IsNotification reports whether the request carries no id and therefore
// expects no response.
func (r Request) IsNotification() bool {
	return r.Id == nil
}

// Response represents a JSON-RPC response object
type Response struct {
	Version string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      ID          `json:"id"`
}

// NewResponse creates a new Response object for the given request id
func NewResponse(id interface{}, result interface{}, err *Error) Response {
	respID, _ := NewID(id)

	return Response{
		Version: Version,
		ID:      respID,
		Result:  result,
		Error:   err,
	}
}
