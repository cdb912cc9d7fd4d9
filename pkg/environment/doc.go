// Package environment defines the application environment names and carries
// the active environment through context. The logger factory uses it to pick
// sensible defaults per environment.
package environment
