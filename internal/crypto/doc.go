// Package crypto exposes the primitives used by pqchat.
//
// Contents
//
//   - Post-quantum key encapsulation over marshalled key bytes (KEM,
//     NewKEM), backed by hpqc's ML-KEM-768 or X-Wing schemes
//   - The symmetric stage that turns a KEM shared secret into message
//     ciphertext (Encrypt, Decrypt)
//   - Seed phrase generation for account recovery (GenerateSeedPhrase,
//     HashSeedPhrase)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// The symmetric stage XORs the message with the shared secret repeated to
// the message length. The same keystream is used for every message between
// two contacts, so two ciphertexts XOR to the XOR of their plaintexts. This
// stage provides no integrity and no forward secrecy and is kept only for
// wire compatibility.
package crypto
