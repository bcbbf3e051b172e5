package wire

// Type is the tag carried in the "type" member of every message.
type Type string

const (
	TypeNewAccountRequest          Type = "NewAccountRequest"
	TypeLoginRequest               Type = "LoginRequest"
	TypeAssignIdentity             Type = "AssignIdentity"
	TypeConnectWithContactRequest  Type = "ConnectWithContactRequest"
	TypeConnectWithContactResponse Type = "ConnectWithContactResponse"
	TypeSendMessageRequest         Type = "SendMessageRequest"
)

// Message is implemented by every wire message.
type Message interface {
	Type() Type
}

// NewAccountRequest registers a fresh identity. Client to relay.
type NewAccountRequest struct {
	Name      string `json:"name"`
	PublicKey []byte `json:"publicKey"`
}

// LoginRequest binds the connection to an existing identity. Client to relay.
type LoginRequest struct {
	UUID     string `json:"UUID"`
	SeedHash []byte `json:"seedHash"`
}

// AssignIdentity answers a NewAccountRequest. Relay to client.
type AssignIdentity struct {
	UUID       string `json:"UUID"`
	SeedPhrase string `json:"seedPhrase"`
	SeedHash   []byte `json:"seedHash"`
}

// ConnectWithContactRequest asks the relay for a registered identity.
// Client to relay.
type ConnectWithContactRequest struct {
	ContactUUID string `json:"contactUUID"`
}

// ConnectWithContactResponse reports the lookup outcome. The optional fields
// are present only when ContactExists is true. Relay to client.
type ConnectWithContactResponse struct {
	ContactExists    bool   `json:"contactExists"`
	ContactUUID      string `json:"contactUUID,omitempty"`
	ContactName      string `json:"contactName,omitempty"`
	ContactPublicKey []byte `json:"contactPublicKey,omitempty"`
}

// SendMessageRequest carries one encrypted chat message. The client fills the
// contact and payload fields; the relay adds the sender fields before it
// forwards the message to the recipient.
type SendMessageRequest struct {
	ContactUUID string `json:"contactUUID"`
	Message     []byte `json:"message"`
	Ciphertext  []byte `json:"ciphertext"`

	SenderUUID      string `json:"senderUUID,omitempty"`
	SenderName      string `json:"senderName,omitempty"`
	SenderPublicKey []byte `json:"senderPublicKey,omitempty"`
}

func (*NewAccountRequest) Type() Type { return TypeNewAccountRequest }

func (*LoginRequest) Type() Type { return TypeLoginRequest }

func (*AssignIdentity) Type() Type { return TypeAssignIdentity }

func (*ConnectWithContactRequest) Type() Type { return TypeConnectWithContactRequest }

func (*ConnectWithContactResponse) Type() Type { return TypeConnectWithContactResponse }

func (*SendMessageRequest) Type() Type { return TypeSendMessageRequest }
