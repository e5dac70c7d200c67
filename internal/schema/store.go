package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// LoadError reports a schema that could not be read, parsed or resolved.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError is a single violation. An empty Path means the document root.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of validating one value against one schema.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type compiled struct {
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// Store loads named schema documents from a directory on first use and keeps
// the resolved form for the lifetime of the process.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*compiled
	sf    singleflight.Group // one file read per name under concurrent first use
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]*compiled)}
}

// Dir returns the directory schemas are read from.
func (s *Store) Dir() string { return s.dir }

// Load reads, parses and resolves <dir>/<name>. Later calls for the same name
// return the cached schema without touching the file system.
func (s *Store) Load(name string) (*jsonschema.Schema, error) {
	c, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return c.schema, nil
}

// Register compiles an in-memory schema document under name, replacing any
// previous entry of the same name.
func (s *Store) Register(name string, doc []byte) error {
	c, err := compile(name, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[name] = c
	s.mu.Unlock()
	return nil
}

// Loaded reports whether name is already compiled.
func (s *Store) Loaded(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[name]
	return ok
}

// Validate checks data against the named schema, loading it on demand.
// A schema violation is reported in the Result, never as an error.
func (s *Store) Validate(name string, data any) (Result, error) {
	c, err := s.resolve(name)
	if err != nil {
		return Result{}, err
	}

	instance, err := normalize(data)
	if err != nil {
		return Result{
			Valid:  false,
			Errors: []ValidationError{{Message: fmt.Sprintf("value is not JSON-compatible: %v", err)}},
		}, nil
	}

	if err := c.resolved.Validate(instance); err != nil {
		return Result{Valid: false, Errors: []ValidationError{violation(err)}}, nil
	}
	return Result{Valid: true}, nil
}

// Preload compiles every *.json document in the store directory. Failures are
// logged and returned as a count so startup can continue.
func (s *Store) Preload() (loaded int, failed int) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", s.dir).Msg("schema directory not readable")
		return 0, 0
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if _, err := s.Load(e.Name()); err != nil {
			log.Warn().Err(err).Str("schema", e.Name()).Msg("schema preload failed")
			failed++
			continue
		}
		loaded++
	}
	return loaded, failed
}

func (s *Store) resolve(name string) (*compiled, error) {
	s.mu.RLock()
	c, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := s.sf.Do(name, func() (any, error) {
		s.mu.RLock()
		c, ok := s.cache[name]
		s.mu.RUnlock()
		if ok {
			return c, nil
		}

		doc, err := os.ReadFile(filepath.Join(s.dir, filepath.Clean("/"+name)))
		if err != nil {
			return nil, &LoadError{Name: name, Err: err}
		}
		c, err = compile(name, doc)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[name] = c
		s.mu.Unlock()
		log.Debug().Str("schema", name).Msg("schema compiled")
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*compiled), nil
}

func compile(name string, doc []byte) (*compiled, error) {
	var sch jsonschema.Schema
	if err := json.Unmarshal(doc, &sch); err != nil {
		return nil, &LoadError{Name: name, Err: fmt.Errorf("parse: %w", err)}
	}
	resolved, err := sch.Resolve(nil)
	if err != nil {
		return nil, &LoadError{Name: name, Err: fmt.Errorf("resolve: %w", err)}
	}
	return &compiled{schema: &sch, resolved: resolved}, nil
}

// normalize round-trips data through encoding/json so typed Go values are
// validated in the same shape a client would receive them.
func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// violation turns a validator error of the form
// "validating <location>: ... validating <location>: <message>" into a
// ValidationError carrying the innermost location and message.
func violation(err error) ValidationError {
	msg := err.Error()
	loc := ""
	for strings.HasPrefix(msg, "validating ") {
		l, rest, ok := strings.Cut(strings.TrimPrefix(msg, "validating "), ": ")
		if !ok {
			break
		}
		loc, msg = l, rest
	}
	return ValidationError{Path: instancePath(loc), Message: msg}
}

// instancePath maps a schema location such as /properties/metadata/properties/tool
// to the instance pointer /metadata/tool.
func instancePath(loc string) string {
	if !strings.HasPrefix(loc, "/") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(loc, "/"), "/")
	var out []string
	for i := 0; i < len(parts); i++ {
		if parts[i] == "properties" && i+1 < len(parts) {
			out = append(out, parts[i+1])
			i++
		}
	}
	if len(out) == 0 {
		return ""
	}
	return "/" + strings.Join(out, "/")
}

// FormatErrors renders violations as "<path or root> <message>" joined by ", ".
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		path := e.Path
		if path == "" {
			path = "root"
		}
		parts = append(parts, path+" "+e.Message)
	}
	return strings.Join(parts, ", ")
}
