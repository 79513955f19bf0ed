// Package config defines the controller's static configuration model and
// loads it from two layers: an HCL file for platform and CMS facts that
// are safe to re-read on every quantum (endpoints, repository coordinates,
// file paths), and environment variables for secrets. Per-session budget
// limits are deliberately NOT part of this model; they arrive as entry
// point flags and are honored only when a session is created.
package config
