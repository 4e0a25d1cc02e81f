// Package diag provides the shared diagnostics accumulator appended to by
// every analysis component. Recoverable conditions are recorded here
// instead of being raised; only unreadable required inputs are fatal.
package diag

import "sync"

// Level is the severity of a diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Diagnostic describes one skipped or degraded piece of analysis.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Module  string `json:"module"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
}

// Collector accumulates diagnostics across components. The zero value is
// not usable; construct with New. Components receive a *Collector
// explicitly so they stay independently testable.
type Collector struct {
	mu      sync.Mutex
	entries []Diagnostic
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, d)
}

// Info appends an informational diagnostic.
func (c *Collector) Info(module, message, file string) {
	c.Add(Diagnostic{Level: LevelInfo, Module: module, Message: message, File: file})
}

// Warn appends a warning diagnostic.
func (c *Collector) Warn(module, message, file string) {
	c.Add(Diagnostic{Level: LevelWarning, Module: module, Message: message, File: file})
}

// Error appends an error diagnostic.
func (c *Collector) Error(module, message, file string) {
	c.Add(Diagnostic{Level: LevelError, Module: module, Message: message, File: file})
}

// Entries returns a copy of all accumulated diagnostics in append order.
func (c *Collector) Entries() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.entries))
	copy(out, c.entries)
	return out
}

// HasWarnings reports whether any warning or error level entry exists.
func (c *Collector) HasWarnings() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.entries {
		if d.Level == LevelWarning || d.Level == LevelError {
			return true
		}
	}
	return false
}
