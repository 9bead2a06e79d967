/*
Package observability provides metrics and lifecycle hooks for monitoring lessons.

Metrics are registered on a caller-supplied prometheus.Registerer so tests and
embedding applications stay isolated from the global registry. Hooks translate
engine events into structured log records and counters.
*/
package observability
