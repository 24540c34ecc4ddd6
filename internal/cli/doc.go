// Package cli parses command-line arguments into an app.Config and defines
// the process exit contract.
package cli
