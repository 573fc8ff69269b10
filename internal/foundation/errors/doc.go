// Package errors provides the classified error primitives used across solclient.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a category,
// a severity, a retry strategy, an optional cause and a small context map. The CLI and
// HTTP adapters turn those into exit codes and JSON error payloads.
//
// Example usage:
//
//	err := errors.NetworkError("challenge list request failed").
//		WithCause(originalErr).
//		WithContext("endpoint", "/api/challenges").
//		Build()
package errors
