// Package identity manages the local identity.
//
// Before registration it holds a freshly generated KEM key pair that has not
// been persisted yet. When the relay assigns a UUID the pending pair is
// combined with it and saved exactly once via the domain.IdentityStore.
package identity
