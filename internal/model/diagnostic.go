package model

import "fmt"

// Severity classifies how serious a diagnostic is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DiagnosticKind identifies the failure class a diagnostic reports.
type DiagnosticKind string

const (
	KindMissingDirectory   DiagnosticKind = "missing_directory"
	KindNoMatchingFiles    DiagnosticKind = "no_matching_files"
	KindMalformedRecord    DiagnosticKind = "malformed_record"
	KindMissingSubfolder   DiagnosticKind = "missing_subfolder"
	KindEmptyDataset       DiagnosticKind = "empty_dataset"
	KindCorrelationFailure DiagnosticKind = "correlation_failure"
)

// Diagnostic is a structured, user-visible report of a recoverable problem
// hit while loading or correlating logs. Diagnostics never abort processing;
// they accompany whatever data could still be produced, and the presentation
// layer decides how to surface them.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Country  string         `json:"country,omitempty"`
	File     string         `json:"file,omitempty"`
	Message  string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Country != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Country, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
}
