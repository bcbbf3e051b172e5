// Package wire defines the messages exchanged between pqchat clients and the
// relay and the framing used to carry them.
//
// Every message is a JSON object whose "type" member names one of the Type
// constants. Byte fields are base64 strings. On the stream each message is
// preceded by its length as a 4-byte big-endian integer, so a single read
// never has to line up with a message boundary.
package wire
