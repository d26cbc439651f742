package types

import "time"

// Field types understood by the node configuration surface.
const (
	FieldString       = "string"
	FieldNumber       = "number"
	FieldBoolean      = "boolean"
	FieldMultiOptions = "multiOptions"
	FieldJSON         = "json"
	FieldDateTime     = "dateTime"
)

// FieldDef describes a single declared node parameter.
type FieldDef struct {
	Name        string   `yaml:"name" json:"name"`
	DisplayName string   `yaml:"display_name" json:"display_name"`
	Type        string   `yaml:"type" json:"type"`
	Description string   `yaml:"description" json:"description"`
	Required    bool     `yaml:"required" json:"required"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`

	// Delimiter is set on text fields that carry a list, such as ";" for
	// semicolon-separated titles. Such fields also accept a list value.
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
}

// JobDef represents a parsed job file: one operation applied to a list of input items.
type JobDef struct {
	Name           string           `yaml:"name" json:"name"`
	Description    string           `yaml:"description" json:"description"`
	Resource       string           `yaml:"resource" json:"resource"`
	Operation      string           `yaml:"operation" json:"operation"`
	ContinueOnFail bool             `yaml:"continue_on_fail" json:"continue_on_fail"`
	Parameters     map[string]any   `yaml:"parameters" json:"parameters"`
	Items          []map[string]any `yaml:"items" json:"items"`
}

// PlannedRequest is a request fragment produced by a dry run.
type PlannedRequest struct {
	Item   int            `json:"item"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	Body   map[string]any `json:"body,omitempty"`
	Query  map[string]any `json:"query,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// RunResult holds the result of one node execution.
type RunResult struct {
	RunID       string           `json:"run_id"`
	Job         string           `json:"job,omitempty"`
	Resource    string           `json:"resource"`
	Operation   string           `json:"operation"`
	Status      string           `json:"status"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	DurationMs  int64            `json:"duration_ms"`
	Items       int              `json:"items"`
	Records     []map[string]any `json:"records"`
	Planned     []PlannedRequest `json:"planned,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusDryRun  = "dry_run"
)
