// ABOUTME: Error types raised while registering adapters and building resources.
// ABOUTME: Both are fatal for admin construction and matched with errors.As.

package core

import "fmt"

// ConfigurationError reports an adapter pair that cannot be registered
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "invalid adapter configuration: " + e.Message
}

// NoAdapterError reports a database or resource handle that no registered adapter recognizes
type NoAdapterError struct {
	Kind   string // "database" or "resource"
	Index  int    // position in the input list
	Handle any
}

func (e *NoAdapterError) Error() string {
	return fmt.Sprintf("no adapter registered for %s #%d (%T)", e.Kind, e.Index, e.Handle)
}
