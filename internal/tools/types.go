// Package tools defines tool descriptors, the registry that serves them and
// the built-in tool implementations.
package tools

import (
	"context"
	"time"

	"github.com/invopop/jsonschema"
)

// Default schema documents shared by the text scoring tools.
const (
	DefaultInputSchema  = "tool-input.schema.json"
	DefaultOutputSchema = "tool-output.schema.json"
)

// Descriptor is the public metadata of a tool. It is immutable after load.
type Descriptor struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Version      string `json:"version"`
	InputSchema  string `json:"inputSchema"`
	OutputSchema string `json:"outputSchema"`
	// ResultSchema, when set, constrains the "result" member of the output.
	ResultSchema *jsonschema.Schema `json:"resultSchema,omitempty"`
}

// ResultSchemaRef is the schema store name the result contract is registered under.
func (d Descriptor) ResultSchemaRef() string {
	return d.Name + ".result.schema.json"
}

// Handler maps a validated input to a JSON-compatible output.
type Handler func(ctx context.Context, input map[string]any) (any, error)

// Module is what a candidate loader produces. Either field may be nil when the
// source was incomplete.
type Module struct {
	Descriptor *Descriptor
	Handler    Handler
}

// Entry is a registered tool.
type Entry struct {
	Descriptor Descriptor
	Handler    Handler
}

// Candidate is a loadable tool source, identified by Ref for diagnostics.
type Candidate struct {
	Ref  string
	Load func() (Module, error)
}

// Metadata is attached to every tool output.
type Metadata struct {
	Timestamp string `json:"timestamp"`
	Tool      string `json:"tool"`
}

// Output is the envelope every tool returns.
type Output struct {
	Result   any      `json:"result"`
	Metadata Metadata `json:"metadata"`
}

// NewOutput wraps result with the current timestamp and the tool name.
func NewOutput(tool string, result any) Output {
	return Output{
		Result: result,
		Metadata: Metadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Tool:      tool,
		},
	}
}
