// Package relay implements the pqchat relay server.
//
// The relay accepts long-lived connections, registers new accounts, binds
// each authenticated connection to a session, answers contact lookups from
// its account directory and forwards encrypted messages between live
// sessions. It never sees plaintext or shared secrets: message payloads and
// KEM ciphertexts are forwarded verbatim.
//
// A connection starts unauthenticated and may send only NewAccountRequest or
// LoginRequest. Anything else, any malformed frame and any failed login end
// the connection. Messages for a UUID without a live session are dropped;
// the drop is logged and counted but nothing is sent back to the sender.
//
// Counters are registered on a per-server prometheus registry and can be
// exposed over HTTP with ServeMetrics.
package relay
