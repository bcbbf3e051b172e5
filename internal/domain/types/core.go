package types

import "github.com/google/uuid"

// UUID identifies a registered identity on the relay.
type UUID = uuid.UUID
