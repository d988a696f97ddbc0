// Package server wires and runs the application's transport servers.
//
// It provides orchestration for the HTTP server lifecycle, including
// startup, signal handling, and graceful shutdown of the enabled transport.
package server
