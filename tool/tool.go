// Package tool implements the tool invocation gateway: descriptors for the
// operations a server exposes, a registry populated at startup, and the
// dispatch/validation path every invocation goes through.
package tool

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is the semantic type of a declared tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param declares a single named parameter of a tool.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Args is the validated argument set passed to a handler. Values are the
// JSON-decoded forms: string, int64, float64, or bool.
type Args map[string]interface{}

// String returns the named string argument, or def if absent.
func (a Args) String(name, def string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return def
}

// Int returns the named integer argument, or def if absent.
func (a Args) Int(name string, def int64) int64 {
	if v, ok := a[name].(int64); ok {
		return v
	}
	return def
}

// Handler implements a tool's behavior. The returned value must be
// JSON-serializable.
type Handler func(ctx context.Context, args Args) (interface{}, error)

// Tool describes a registered tool: its immutable descriptor plus the
// handler that implements it.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// InputSchema builds the JSON Schema advertised for the tool's arguments.
func (t Tool) InputSchema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for _, p := range t.Params {
		schema.Properties[p.Name] = &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Description,
		}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func (t Tool) validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}
	seen := map[string]bool{}
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q declares an unnamed parameter", t.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", t.Name, p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		default:
			return fmt.Errorf("tool %q parameter %q has unknown type %q", t.Name, p.Name, p.Type)
		}
	}
	return nil
}
