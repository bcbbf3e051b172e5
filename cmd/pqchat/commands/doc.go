// Package commands defines the pqchat CLI.
//
// Commands
//
//   - chat           Connect to the relay and run an interactive session
//   - whoami         Print the local identity
//   - contacts       List known contacts
//   - history        Print stored messages, optionally for one contact
//   - fingerprint    Print the identity fingerprint
//
// Settings come from an optional TOML file (--config) and are overridden by
// the persistent flags. The first successful chat against a relay registers
// a new identity; later runs log in with it.
package commands
