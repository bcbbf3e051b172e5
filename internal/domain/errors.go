package domain

import "errors"

// Error taxonomy. Callers wrap these with fmt.Errorf("...: %w", err) and
// match with errors.Is.
var (
	// ErrTransport covers dial failures, resets and EOF on a connection.
	ErrTransport = errors.New("transport error")

	// ErrAuthentication is returned when a login names an unknown account or
	// presents a seed hash that does not match the stored verifier.
	ErrAuthentication = errors.New("authentication failed")

	// ErrProtocol marks malformed frames, unknown type tags and requests that
	// are not valid in the current connection state.
	ErrProtocol = errors.New("protocol error")

	// ErrCrypto marks key, ciphertext or secret material the KEM or the
	// keystream refused.
	ErrCrypto = errors.New("crypto error")

	// ErrLookup is returned by stores when a UUID has no record.
	ErrLookup = errors.New("lookup failed")

	// ErrContactNotFound is returned when sending to a UUID with no local contact.
	ErrContactNotFound = errors.New("contact not found")

	// ErrNotDelivered reports that the relay dropped a message because the
	// recipient had no live session.
	ErrNotDelivered = errors.New("message not delivered: recipient offline")

	// ErrIdentityExists is returned when a second identity would be persisted.
	ErrIdentityExists = errors.New("identity already exists")

	// ErrNoIdentity is returned when an operation needs a registered identity.
	ErrNoIdentity = errors.New("no local identity")
)
