// Package config defines the unified, format-agnostic model of a build plan.
// Format-specific loaders (currently HCL, see the internal/hcl package)
// translate their own schemas into these types so the rest of the application
// never touches parser details beyond the raw argument bodies.
package config
