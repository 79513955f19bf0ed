// Package ghapi is a thin client for the slice of the GitHub REST API the
// controller needs: repository contents (the durable channel for the
// session record and task files), workflow run counts (the concurrency
// guard's status query), and repository_dispatch (the activation call).
// Retry policy lives with the callers; this package does single attempts
// and classifies the outcome.
package ghapi
