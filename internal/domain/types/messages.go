package types

import "time"

// Direction tells who wrote a chat message.
type Direction string

const (
	DirectionSent     Direction = "ME"
	DirectionReceived Direction = "CONTACT"
)

// ChatMessage is one entry of the append-only local history.
type ChatMessage struct {
	Seq         uint64    `cbor:"seq"`
	ContactUUID UUID      `cbor:"contact_uuid"`
	Body        string    `cbor:"body"`
	Direction   Direction `cbor:"direction"`
	Timestamp   time.Time `cbor:"timestamp"`
}
