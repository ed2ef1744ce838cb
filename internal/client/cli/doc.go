// Package cli provides the interactive notekeeper command-line client.
//
// It wires configuration, the local session file, the API client and a
// read-eval-print loop. A saved session is restored on start, so a login
// survives restarts until the token expires or the user logs out.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
