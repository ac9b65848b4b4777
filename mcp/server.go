package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/loopwork-ai/codesight/jsonrpc"
	"github.com/loopwork-ai/codesight/tool"
)

// ResourceReader produces the contents for a resource URI.
type ResourceReader func(uri string) (ResourceContents, error)

type resourceEntry struct {
	resource Resource
	read     ResourceReader
}

type templateEntry struct {
	template ResourceTemplate
	// read returns false when the URI does not match the template
	read func(uri string) (ResourceContents, bool)
}

// Server dispatches JSON-RPC requests to the tool registry and the
// registered resources. It is transport-agnostic: both the stdio and HTTP
// transports feed it the same requests.
type Server struct {
	registry     *tool.Registry
	info         ServerInfo
	instructions string
	resources    []resourceEntry
	templates    []templateEntry
	logger       *slog.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithRegistry sets the tool registry the server dispatches to
func WithRegistry(registry *tool.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithServerInfo sets the name and version reported on initialize
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.info = ServerInfo{Name: name, Version: version}
	}
}

// WithInstructions sets the instructions string reported on initialize
func WithInstructions(instructions string) ServerOption {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// WithLogger sets the logger used by the server
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithResource registers a static resource and its reader
func WithResource(resource Resource, read ResourceReader) ServerOption {
	return func(s *Server) {
		s.resources = append(s.resources, resourceEntry{resource: resource, read: read})
	}
}

// WithResourceTemplate registers a parameterized resource. The reader
// reports whether the URI matched the template.
func WithResourceTemplate(template ResourceTemplate, read func(uri string) (ResourceContents, bool)) ServerOption {
	return func(s *Server) {
		s.templates = append(s.templates, templateEntry{template: template, read: read})
	}
}

// NewServer creates a new server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		info:   ServerInfo{Name: "codesight", Version: "dev"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		return nil, fmt.Errorf("no tool registry provided")
	}
	return s, nil
}

var _ jsonrpc.Handler = (*Server)(nil)

// Handle processes a single JSON-RPC request and returns a response.
// Notifications produce a zero response the transports do not write.
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	s.logger.Debug("handling request", "method", request.Method)

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "notifications/initialized":
		return jsonrpc.Response{}
	case "ping":
		return jsonrpc.NewResponse(request.Id, struct{}{}, nil)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(ctx, request)
	case "resources/list":
		return s.handleResourcesList(request)
	case "resources/templates/list":
		return s.handleResourceTemplatesList(request)
	case "resources/read":
		return s.handleResourcesRead(request)
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	response := InitializeResponse{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      s.info,
		Instructions:    s.instructions,
	}
	response.Capabilities.Tools = &struct {
		ListChanged bool `json:"listChanged"`
	}{}
	if len(s.resources) > 0 || len(s.templates) > 0 {
		response.Capabilities.Resources = &struct {
			Subscribe   bool `json:"subscribe"`
			ListChanged bool `json:"listChanged"`
		}{}
	}
	return jsonrpc.NewResponse(request.Id, response, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	tools := []Tool{}
	for _, t := range s.registry.List() {
		tools = append(tools, Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema(),
		})
	}
	return jsonrpc.NewResponse(request.Id, ToolsListResponse{Tools: tools}, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	if len(request.Params) == 0 {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "missing params"))
	}

	var params ToolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}

	result, err := s.registry.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		var handlerErr *tool.HandlerError
		if errors.As(err, &handlerErr) {
			// Handler failures are reported in-band so the caller sees a
			// structured result instead of a protocol error.
			s.logger.Warn("tool failed", "tool", params.Name, "error", handlerErr.Err)
			return jsonrpc.NewResponse(request.Id, CallToolResult{
				Content: []Content{NewTextContent(handlerErr.Err.Error())},
				IsError: true,
			}, nil)
		}
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, err))
	}

	return jsonrpc.NewResponse(request.Id, CallToolResult{
		Content: []Content{NewTextContent(string(payload))},
	}, nil)
}

func (s *Server) handleResourcesList(request jsonrpc.Request) jsonrpc.Response {
	resources := []Resource{}
	for _, entry := range s.resources {
		resources = append(resources, entry.resource)
	}
	return jsonrpc.NewResponse(request.Id, ListResourcesResponse{Resources: resources}, nil)
}

func (s *Server) handleResourceTemplatesList(request jsonrpc.Request) jsonrpc.Response {
	templates := []ResourceTemplate{}
	for _, entry := range s.templates {
		templates = append(templates, entry.template)
	}
	return jsonrpc.NewResponse(request.Id, ListResourceTemplatesResponse{ResourceTemplates: templates}, nil)
}

func (s *Server) handleResourcesRead(request jsonrpc.Request) jsonrpc.Response {
	var params ReadResourceParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}
	if params.URI == "" {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "missing uri"))
	}

	for _, entry := range s.resources {
		if entry.resource.URI != params.URI {
			continue
		}
		contents, err := entry.read(params.URI)
		if err != nil {
			return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, err))
		}
		return jsonrpc.NewResponse(request.Id, ReadResourceResponse{Contents: []ResourceContents{contents}}, nil)
	}

	for _, entry := range s.templates {
		if contents, ok := entry.read(params.URI); ok {
			return jsonrpc.NewResponse(request.Id, ReadResourceResponse{Contents: []ResourceContents{contents}}, nil)
		}
	}

	return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, fmt.Sprintf("unknown resource: %s", params.URI)))
}
