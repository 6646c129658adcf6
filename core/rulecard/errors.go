package rulecard

import "fmt"

// ParseError reports malformed YAML in a rule card source file. It is fatal
// to loading that file but not to the registry as a whole.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing rule card %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a rule card that parsed but violates the card schema:
// a missing required field, an invalid enum value, or a duplicate ID.
type SchemaError struct {
	Path   string
	CardID string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.CardID != "" {
		return fmt.Sprintf("rule card %s (%s): %s", e.CardID, e.Path, e.Reason)
	}
	return fmt.Sprintf("rule card %s: %s", e.Path, e.Reason)
}

// NotFoundError reports a lookup for a card ID that is not in the registry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rule card %q not found", e.ID)
}
