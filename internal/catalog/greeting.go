package catalog

import (
	"fmt"
	"strings"

	"github.com/loopwork-ai/codesight/mcp"
)

const greetingScheme = "greeting://"

// GreetingResource returns the static greeting resource.
func GreetingResource() (mcp.Resource, mcp.ResourceReader) {
	resource := mcp.Resource{
		URI:         greetingScheme + "world",
		Name:        "greeting",
		Description: "A friendly greeting",
		MimeType:    "text/plain",
	}
	read := func(uri string) (mcp.ResourceContents, error) {
		return greet(uri, "world"), nil
	}
	return resource, read
}

// GreetingTemplate returns the parameterized greeting resource. Reading
// greeting://{name} echoes a greeting for that name.
func GreetingTemplate() (mcp.ResourceTemplate, func(uri string) (mcp.ResourceContents, bool)) {
	template := mcp.ResourceTemplate{
		URITemplate: greetingScheme + "{name}",
		Name:        "greeting",
		Description: "A greeting for a specified name",
		MimeType:    "text/plain",
	}
	read := func(uri string) (mcp.ResourceContents, bool) {
		name, ok := strings.CutPrefix(uri, greetingScheme)
		if !ok || name == "" {
			return mcp.ResourceContents{}, false
		}
		return greet(uri, name), true
	}
	return template, read
}

func greet(uri, name string) mcp.ResourceContents {
	return mcp.ResourceContents{
		URI:      uri,
		MimeType: "text/plain",
		Text:     fmt.Sprintf("Hello, %s!", name),
	}
}
