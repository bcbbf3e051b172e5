// Package main is the pqchat relay.
//
// The relay keeps a directory of registered accounts (UUID, display name,
// KEM public key, seed hash) in a bbolt file, binds each logged-in account
// to its connection and forwards encrypted messages between online users.
// Messages for offline users are dropped. It never sees plaintext or private
// keys.
//
// Commands
//
//	relay serve      accept clients on --listen (default :33000)
//	relay gencert    write a development CA and server certificate
package main
