// Package message turns chat text into relay payloads and back, and records
// every message in the local history.
package message
