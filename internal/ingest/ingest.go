package ingest

import (
	"io"
	"strings"

	"github.com/settled-dev/settled/internal/model"
)

// RowError describes one input row that could not be parsed or validated.
// The row is skipped; parsing continues.
type RowError struct {
	Row int // 1-based, including the header
	Err error
}

func (e RowError) Error() string {
	return e.Err.Error()
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Source converts an input stream into transactions. Each well-formed
// transaction is passed to handle in input order; each malformed row is
// passed to reject. A Source only returns an error when the stream itself
// is unreadable.
type Source interface {
	Parse(r io.Reader, handle func(model.Transaction), reject func(RowError)) error
	Format() string
}

// Registry holds named sources.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVSource{})
	return r
}
