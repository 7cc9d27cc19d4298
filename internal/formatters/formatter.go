// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"strings"

	"github.com/medcheck-kr/medcheck/internal/core"
)

// Options defines configuration options for formatters.
type Options struct {
	Verbose bool // Whether to display matches and contexts in full
	NoColor bool // Whether to disable colored output
}

// Formatter renders one analysis report.
type Formatter interface {
	// Format renders the report according to the formatter's output format.
	Format(report *core.Report, options Options) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv").
	Name() string

	// Description returns a brief description of what this formatter outputs.
	Description() string

	// FileExtension returns the recommended file extension for this format.
	FileExtension() string
}

// Registry holds all registered formatters.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names.
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get retrieves a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List lists all formatters in the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// Format renders the report with the named formatter from the default
// registry.
func Format(name string, report *core.Report, options Options) (string, error) {
	formatter, ok := Get(name)
	if !ok {
		return "", fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(List(), ", "))
	}
	return formatter.Format(report, options)
}
