// Package task is the quantum's domain work: the collaborator that runs
// before the continuation logic. It authenticates to the CMS with a
// cookie session, picks the first post ID not yet processed, submits it,
// and records the progress through the same durable channel the session
// record uses. The controller only cares whether Run returned an error.
package task
