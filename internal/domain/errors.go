package domain

import "fmt"

// ParseError reports malformed tabular input. Line is 1-based, 0 when the
// problem is not tied to a line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

// ConfigError reports a required meta tab key that is missing or empty.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("meta tab is missing required key %q", e.Key)
}

// UpstreamError reports a transport failure, timeout or non-success status
// from an external source. Source is "sheet" or "github"; ID names the tab or
// account that failed.
type UpstreamError struct {
	Source string
	ID     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch %s %q: %v", e.Source, e.ID, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UpstreamShapeError reports a statistics response without the expected nested path.
type UpstreamShapeError struct {
	Path string
}

func (e *UpstreamShapeError) Error() string {
	return fmt.Sprintf("unexpected upstream response: %s is missing", e.Path)
}
