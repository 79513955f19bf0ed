// Package session defines the durable session record shared by every
// quantum of a run chain, the budget limits applied to a session, and the
// lifecycle phases the controller moves through. The record's wire format
// is deliberately tiny: two lines of decimal digits, start time then run
// counter, so it can live as a plain text file in the repository.
package session
