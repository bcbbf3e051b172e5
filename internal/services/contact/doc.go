// Package contact pairs the local identity with other identities.
//
// A pairing happens once per counterpart, from whichever side sees the other
// first: after a successful lookup this side encapsulates against the
// counterpart's public key; on the first message from an unknown sender this
// side decapsulates the ciphertext the sender attached. Either way the
// resulting secret is cached, persisted and never recomputed.
package contact
