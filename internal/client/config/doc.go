// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server API
//	-f string   local session database file
//	-t int      request timeout (seconds)
//	-e string   directory for downloaded exports
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3000/api",
//	  "database_path": "notekeeper.db",
//	  "request_timeout": "10s",
//	  "export_dir": "exports"
//	}
package config
