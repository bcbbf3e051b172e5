// Package store provides bbolt-backed persistence for pqchat.
//
// It contains concrete implementations of the domain storage interfaces.
// Records are encoded with CBOR; every write runs in its own bbolt update
// transaction, so a record is either fully committed or absent.
//
//   - ClientDB keeps one client's identity, contacts and chat history. The
//     identity record is sealed with a passphrase-derived key.
//   - AccountDB is the relay's account directory.
//
// Both files carry a metadata bucket with a format version that is checked
// on open.
package store
