package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Scorer posts text to a remote inference endpoint and returns the requested
// numeric fields of its response.
type Scorer interface {
	Score(ctx context.Context, endpoint, text string, fields []string) (map[string]float64, error)
}

// UpstreamSpec describes a tool that forwards its text to one inference API.
type UpstreamSpec struct {
	Name         string
	Description  string
	Version      string
	InputSchema  string
	OutputSchema string
	// API is the human readable name used in error messages.
	API      string
	Endpoint string
	Fields   []string
}

// UpstreamTool builds a module for spec. The module has no handler when spec
// lacks an endpoint or fields, so the registry skips it.
func UpstreamTool(spec UpstreamSpec, scorer Scorer) Module {
	if spec.Name == "" {
		return Module{}
	}
	desc := &Descriptor{
		Name:         spec.Name,
		Description:  spec.Description,
		Version:      orDefault(spec.Version, "1.0.0"),
		InputSchema:  orDefault(spec.InputSchema, DefaultInputSchema),
		OutputSchema: orDefault(spec.OutputSchema, DefaultOutputSchema),
	}
	if spec.Endpoint == "" || len(spec.Fields) == 0 || scorer == nil {
		return Module{Descriptor: desc}
	}
	desc.ResultSchema = numericContract(spec.Fields)

	api := orDefault(spec.API, spec.Name)
	fields := append([]string(nil), spec.Fields...)
	return Module{
		Descriptor: desc,
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			text, err := requireText(input)
			if err != nil {
				return nil, err
			}
			scores, err := scorer.Score(ctx, spec.Endpoint, text, fields)
			if err != nil {
				return nil, fmt.Errorf("failed to call %s API: %w", api, err)
			}
			return NewOutput(spec.Name, scores), nil
		},
	}
}

// numericContract is the result schema of an upstream tool: exactly the listed
// fields, each a number.
func numericContract(fields []string) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, f := range fields {
		props.Set(f, &jsonschema.Schema{Type: "number"})
	}
	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Type:                 "object",
		Properties:           props,
		Required:             append([]string(nil), fields...),
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func requireText(input map[string]any) (string, error) {
	text, _ := input["text"].(string)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("invalid input: text must be a non-empty string")
	}
	return text, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
