// Package cli parses command-line arguments, validates user input, and
// handles process-level concerns like exit codes. It translates the entry
// point's flags into the application's internal configuration; budget
// flags are only meaningful on a manual session start.
package cli
