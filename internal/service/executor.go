package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/toolhost/internal/schema"
	"github.com/cortexai/toolhost/internal/security"
	"github.com/cortexai/toolhost/internal/tools"
)

// FailureKind classifies why an execution did not produce a result.
type FailureKind int

const (
	FailureNotFound FailureKind = iota + 1
	FailureInvalidInput
	FailureSchemaUnavailable
	FailureExecution
	FailureInvalidOutput
)

func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not_found"
	case FailureInvalidInput:
		return "invalid_input"
	case FailureSchemaUnavailable:
		return "schema_unavailable"
	case FailureExecution:
		return "execution_failed"
	case FailureInvalidOutput:
		return "invalid_output"
	default:
		return "unknown"
	}
}

// Failure is the error returned by Execute.
type Failure struct {
	Kind    FailureKind
	Tool    string
	Details string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("%s %s: %v", f.Tool, f.Kind, f.Err)
	case f.Details != "":
		return fmt.Sprintf("%s %s: %s", f.Tool, f.Kind, f.Details)
	default:
		return fmt.Sprintf("%s %s", f.Tool, f.Kind)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Execution stages, as recorded in audit events.
const (
	StageResolve     = "resolve"
	StageValidateIn  = "validate_in"
	StageInvoke      = "invoke"
	StageValidateOut = "validate_out"
	StageRespond     = "respond"
)

// Executor runs a named tool with schema validation on both sides.
type Executor struct {
	registry *tools.Registry
	schemas  *schema.Store
	audit    *security.AuditLogger
}

// NewExecutor registers the result contract of every tool in reg with the
// schema store. A contract that fails to compile is logged and not enforced.
func NewExecutor(reg *tools.Registry, schemas *schema.Store, audit *security.AuditLogger) *Executor {
	for _, d := range reg.Descriptors() {
		doc, err := tools.ContractDocument(d)
		if err == nil && doc != nil {
			err = schemas.Register(d.ResultSchemaRef(), doc)
		}
		if err != nil {
			log.Warn().Err(err).Str("tool", d.Name).Msg("result contract not enforced")
		}
	}
	return &Executor{registry: reg, schemas: schemas, audit: audit}
}

// Caller identifies who asked for an execution, for auditing.
type Caller struct {
	APIKey    string
	RequestID string
}

// Execute resolves the tool, validates body against its input schema, runs the
// handler and validates the JSON form of its output. An empty body counts as
// an empty object. On success the normalized output is returned.
func (e *Executor) Execute(ctx context.Context, name string, body []byte, caller Caller) (any, error) {
	start := time.Now()
	stage := StageResolve

	out, err := e.execute(ctx, name, body, &stage)

	evt := security.ExecutionEvent{
		Tool:       name,
		Input:      body,
		APIKey:     caller.APIKey,
		RequestID:  caller.RequestID,
		Stage:      stage,
		Success:    err == nil,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		evt.Err = err.Error()
	}
	e.audit.LogExecution(evt)
	return out, err
}

func (e *Executor) execute(ctx context.Context, name string, body []byte, stage *string) (any, error) {
	entry, ok := e.registry.Get(name)
	if !ok {
		return nil, &Failure{Kind: FailureNotFound, Tool: name}
	}
	desc := entry.Descriptor

	*stage = StageValidateIn
	input, err := decodeInput(body)
	if err != nil {
		return nil, &Failure{Kind: FailureInvalidInput, Tool: name, Details: err.Error()}
	}
	res, err := e.schemas.Validate(desc.InputSchema, input)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("input schema unavailable")
		return nil, &Failure{Kind: FailureSchemaUnavailable, Tool: name, Err: err}
	}
	if !res.Valid {
		return nil, &Failure{Kind: FailureInvalidInput, Tool: name, Details: schema.FormatErrors(res.Errors)}
	}
	obj, ok := input.(map[string]any)
	if !ok {
		return nil, &Failure{Kind: FailureInvalidInput, Tool: name, Details: "root must be object"}
	}

	*stage = StageInvoke
	raw, err := entry.Handler(ctx, obj)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool execution failed")
		return nil, &Failure{Kind: FailureExecution, Tool: name, Err: err}
	}
	output, err := normalize(raw)
	if err != nil {
		err = fmt.Errorf("output is not JSON-serializable: %w", err)
		log.Error().Err(err).Str("tool", name).Msg("tool execution failed")
		return nil, &Failure{Kind: FailureExecution, Tool: name, Err: err}
	}

	*stage = StageValidateOut
	if f := e.validateOutput(desc, output); f != nil {
		return nil, f
	}

	*stage = StageRespond
	return output, nil
}

func (e *Executor) validateOutput(desc tools.Descriptor, output any) *Failure {
	res, err := e.schemas.Validate(desc.OutputSchema, output)
	if err != nil {
		log.Error().Err(err).Str("tool", desc.Name).Msg("output schema unavailable")
		return &Failure{Kind: FailureSchemaUnavailable, Tool: desc.Name, Err: err}
	}
	if res.Valid && desc.ResultSchema != nil && e.schemas.Loaded(desc.ResultSchemaRef()) {
		obj, _ := output.(map[string]any)
		res, err = e.schemas.Validate(desc.ResultSchemaRef(), obj["result"])
		if err != nil {
			return &Failure{Kind: FailureSchemaUnavailable, Tool: desc.Name, Err: err}
		}
	}
	if !res.Valid {
		details := schema.FormatErrors(res.Errors)
		log.Error().Str("tool", desc.Name).Str("details", details).Msg("tool produced invalid output")
		return &Failure{Kind: FailureInvalidOutput, Tool: desc.Name, Details: details}
	}
	return nil
}

// decodeInput parses the request body. Whitespace-only bodies decode to {}.
func decodeInput(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("malformed JSON: unexpected data after top-level value")
	}
	return v, nil
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
