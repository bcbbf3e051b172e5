// Package tlsconf builds the TLS configurations for the relay and its
// clients, and generates a development CA and server certificate.
//
// The relay presents a certificate signed by a CA the clients trust; the
// client verifies the chain against that CA file and the server name.
package tlsconf
