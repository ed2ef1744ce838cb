// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the notekeeper HTTP API
//	-d string     directory, relative to the working directory, holding the session file
//	-t duration   per-request timeout
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "session_dir": ".notekeeper",
//	  "request_timeout": "30s"
//	}
package config
