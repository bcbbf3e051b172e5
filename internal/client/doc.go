// Package client is the pqchat relay client.
//
// A Client owns one connection to the relay at a time. Connect registers a
// new identity or logs in with the stored one, then starts a receive loop
// that dispatches relay messages to the identity, contact and message
// services and reports results to a domain.Notifier. The send path
// (ContactConnectionRequest, SendMessage) may be used from any goroutine
// while the loop runs.
//
// The loop ends on the first transport or protocol error; the error is kept
// and reported by Err once Done is closed. Nothing reconnects automatically.
package client
