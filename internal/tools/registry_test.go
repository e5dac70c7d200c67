package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cortexai/toolhost/internal/tools"
)

func echoHandler(_ context.Context, input map[string]any) (any, error) {
	return input, nil
}

func candidate(ref string, m tools.Module, err error) tools.Candidate {
	return tools.Candidate{Ref: ref, Load: func() (tools.Module, error) { return m, err }}
}

func desc(name, version string) *tools.Descriptor {
	return &tools.Descriptor{
		Name:         name,
		Description:  name + " tool",
		Version:      version,
		InputSchema:  tools.DefaultInputSchema,
		OutputSchema: tools.DefaultOutputSchema,
	}
}

// ─── LoadOne ──────────────────────────────────────────────────────────────────

func TestLoadOne(t *testing.T) {
	loadErr := errors.New("boom")

	tests := []struct {
		name    string
		c       tools.Candidate
		wantErr error
	}{
		{"complete", candidate("a", tools.Module{Descriptor: desc("a", "1.0.0"), Handler: echoHandler}, nil), nil},
		{"no descriptor", candidate("b", tools.Module{Handler: echoHandler}, nil), tools.ErrMissingDescriptor},
		{"empty name", candidate("c", tools.Module{Descriptor: desc("", "1.0.0"), Handler: echoHandler}, nil), tools.ErrMissingDescriptor},
		{"no handler", candidate("d", tools.Module{Descriptor: desc("d", "1.0.0")}, nil), tools.ErrMissingHandler},
		{"load error", candidate("e", tools.Module{}, loadErr), loadErr},
		{"nil loader", tools.Candidate{Ref: "f"}, tools.ErrMissingHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tools.NewRegistry()
			err := r.LoadOne(tt.c)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("LoadOne: unexpected error %v", err)
				}
				if r.Len() != 1 {
					t.Errorf("Len() = %d, want 1", r.Len())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadOne error = %v, want %v", err, tt.wantErr)
			}
			if r.Len() != 0 {
				t.Errorf("failed candidate should not register, Len() = %d", r.Len())
			}
		})
	}
}

// ─── LoadAll ──────────────────────────────────────────────────────────────────

func TestLoadAllSkipsBrokenModules(t *testing.T) {
	r := tools.NewRegistry()
	n := r.LoadAll([]tools.Candidate{
		candidate("ok1", tools.Module{Descriptor: desc("alpha", "1.0.0"), Handler: echoHandler}, nil),
		candidate("broken", tools.Module{Descriptor: desc("beta", "1.0.0")}, nil),
		candidate("failing", tools.Module{}, errors.New("syntax error")),
		candidate("ok2", tools.Module{Descriptor: desc("gamma", "1.0.0"), Handler: echoHandler}, nil),
	})
	if n != 2 {
		t.Errorf("LoadAll() = %d, want 2", n)
	}
	if !r.Has("alpha") || !r.Has("gamma") {
		t.Error("well-formed modules should be registered")
	}
	if r.Has("beta") {
		t.Error("module without handler should be skipped")
	}
}

func TestLoadAllDuplicateLastWins(t *testing.T) {
	r := tools.NewRegistry()
	r.LoadAll([]tools.Candidate{
		candidate("first", tools.Module{Descriptor: desc("dup", "1.0.0"), Handler: echoHandler}, nil),
		candidate("second", tools.Module{Descriptor: desc("dup", "2.0.0"), Handler: echoHandler}, nil),
	})
	e, ok := r.Get("dup")
	if !ok {
		t.Fatal("dup should be registered")
	}
	if e.Descriptor.Version != "2.0.0" {
		t.Errorf("Version = %q, want the last loaded 2.0.0", e.Descriptor.Version)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestLoadAllEmpty(t *testing.T) {
	r := tools.NewRegistry()
	if n := r.LoadAll(nil); n != 0 {
		t.Errorf("LoadAll(nil) = %d", n)
	}
	if got := r.Descriptors(); len(got) != 0 {
		t.Errorf("Descriptors() = %v, want empty", got)
	}
}

// ─── Lookup ───────────────────────────────────────────────────────────────────

func TestDescriptorsSorted(t *testing.T) {
	r := tools.NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mu"} {
		r.Register(*desc(name, "1.0.0"), echoHandler)
	}
	got := r.Descriptors()
	want := []string{"alpha", "mu", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Descriptors() len = %d", len(got))
	}
	for i, d := range got {
		if d.Name != want[i] {
			t.Errorf("Descriptors()[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

func TestGetUnknown(t *testing.T) {
	r := tools.NewRegistry()
	if _, ok := r.Get("nope"); ok {
		t.Error("Get should report false for an unknown tool")
	}
	if r.Has("nope") {
		t.Error("Has should report false for an unknown tool")
	}
}

// ─── Builtin ──────────────────────────────────────────────────────────────────

func TestBuiltin(t *testing.T) {
	r := tools.NewRegistry()
	n := r.LoadAll(tools.Builtin(tools.Deps{Scorer: &fakeScorer{}}))
	if n != 3 {
		t.Errorf("LoadAll(Builtin) = %d, want 3 without a language model", n)
	}
	for _, name := range []string{"action_impact_model", "category_level_model", "keyword_category_model"} {
		if !r.Has(name) {
			t.Errorf("%s should be registered", name)
		}
	}
	if r.Has("sentiment_model") {
		t.Error("sentiment_model needs a language model")
	}

	impact, _ := r.Get("action_impact_model")
	if impact.Descriptor.Version != "1.1.0" {
		t.Errorf("action_impact_model version = %q", impact.Descriptor.Version)
	}
	if impact.Descriptor.ResultSchema == nil {
		t.Error("upstream tools should carry a result contract")
	}

	r2 := tools.NewRegistry()
	if n := r2.LoadAll(tools.Builtin(tools.Deps{Scorer: &fakeScorer{}, Completer: fakeCompleter("{}")})); n != 4 {
		t.Errorf("LoadAll(Builtin) = %d, want 4 with a language model", n)
	}
}
