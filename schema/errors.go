package schema

import (
	"fmt"
	"strings"
)

// PreconditionError reports input data or programming errors that abort an analysis run.
// It names the offending component, metric and value when they are known.
type PreconditionError struct {
	Reason    string
	Component string
	Metric    string
	Value     any
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	var details []string
	if e.Component != "" {
		details = append(details, fmt.Sprintf("component=%s", e.Component))
	}
	if e.Metric != "" {
		details = append(details, fmt.Sprintf("metric=%s", e.Metric))
	}
	if e.Value != nil {
		details = append(details, fmt.Sprintf("value=%v", e.Value))
	}
	if len(details) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s [%s]", e.Reason, strings.Join(details, " "))
}

// Preconditionf builds a PreconditionError with a formatted reason.
func Preconditionf(component, metric string, value any, format string, args ...any) error {
	return &PreconditionError{
		Reason:    fmt.Sprintf(format, args...),
		Component: component,
		Metric:    metric,
		Value:     value,
	}
}
