// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and the fallbacks applied to them.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key, the request body limit
// used by batch export requests and the deadline of a single export request.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start to configure Fiber.
package server
