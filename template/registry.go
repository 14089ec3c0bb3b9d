package template

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// HandlerFunc rewrites a cell whose value contains a registered placeholder.
// It receives the file, sheet name, 0-based row/col indices, and the raw cell value.
type HandlerFunc func(f *excelize.File, sheet string, row, col int, value string) error

// Registry maps placeholders such as "{{month}}" to handlers.
type Registry struct {
	handlers []entry
}

type entry struct {
	pattern string
	handler HandlerFunc
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a handler for pattern. Handlers are checked in registration
// order; the first match wins.
func (r *Registry) Register(pattern string, handler HandlerFunc) {
	r.handlers = append(r.handlers, entry{pattern: pattern, handler: handler})
}

// Patterns lists the registered placeholders in registration order.
func (r *Registry) Patterns() []string {
	patterns := make([]string, len(r.handlers))
	for i, e := range r.handlers {
		patterns[i] = e.pattern
	}
	return patterns
}

// Process runs the first handler whose pattern occurs in value and reports
// whether one ran.
func (r *Registry) Process(f *excelize.File, sheet string, row, col int, value string) (bool, error) {
	for _, e := range r.handlers {
		if !strings.Contains(value, e.pattern) {
			continue
		}
		if err := e.handler(f, sheet, row, col, value); err != nil {
			return false, fmt.Errorf("%s: %w", e.pattern, err)
		}
		return true, nil
	}

	return false, nil
}
