// Package config loads runtime configuration for the booklib CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config or the CONFIG variable.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server API (scheme optional)
//	-t int      request timeout in seconds
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:8080",
//	  "request_timeout": "5s"
//	}
package config
