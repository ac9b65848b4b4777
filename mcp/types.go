// Package mcp implements the protocol layer: the wire types the server
// speaks, the request dispatcher, and the stdio and HTTP transports.
package mcp

import "github.com/google/jsonschema-go/jsonschema"

// ProtocolVersion is the Model Context Protocol version
const ProtocolVersion = "2024-11-05"

// ServerInfo identifies the server implementation
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities represents the server's supported capabilities
type ServerCapabilities struct {
	Tools *struct {
		ListChanged bool `json:"listChanged"`
	} `json:"tools,omitempty"`
	Resources *struct {
		Subscribe   bool `json:"subscribe"`
		ListChanged bool `json:"listChanged"`
	} `json:"resources,omitempty"`
}

// InitializeResponse represents the server's response to an initialize request
type InitializeResponse struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// Tool represents a single tool in the tools/list response
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ToolsListResponse represents the response for the tools/list method
type ToolsListResponse struct {
	Tools []Tool `json:"tools"`
}

// ToolCallParams represents the parameters for the tools/call method
type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// Content represents a single content item in a tool call result
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewTextContent creates a text content item
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// CallToolResult represents the server's response to a tool call. A failed
// invocation sets IsError and carries the failure text as content; the
// response itself is still a successful JSON-RPC response.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Resource represents a known resource the server can read
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate represents a parameterized resource
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResponse represents the response for resources/list
type ListResourcesResponse struct {
	Resources []Resource `json:"resources"`
}

// ListResourceTemplatesResponse represents the response for resources/templates/list
type ListResourceTemplatesResponse struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

// ReadResourceParams represents the parameters for resources/read
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents represents the contents of a specific resource
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// ReadResourceResponse represents the response for resources/read
type ReadResourceResponse struct {
	Contents []ResourceContents `json:"contents"`
}
