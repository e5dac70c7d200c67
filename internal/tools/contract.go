package tools

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var contractReflector = &jsonschema.Reflector{
	Anonymous:      true,
	DoNotReference: true,
}

// reflectContract derives a result schema from the Go type of v.
func reflectContract(v any) *jsonschema.Schema {
	return contractReflector.Reflect(v)
}

// ContractDocument renders the result contract of d as a JSON schema
// document, or nil when d has none.
func ContractDocument(d Descriptor) ([]byte, error) {
	if d.ResultSchema == nil {
		return nil, nil
	}
	doc, err := json.Marshal(d.ResultSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal result schema for %s: %w", d.Name, err)
	}
	return doc, nil
}
