// Package app wires application dependencies for the pqchat binaries.
//
// It loads TOML configuration for the relay and the client, applies
// defaults, and builds the concrete stores, services and network endpoints
// from it: NewRelay for the server and NewClient for the chat client.
package app
