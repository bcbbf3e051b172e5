package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"pqchat/internal/domain"
)

type envelope struct {
	Type Type `json:"type"`
}

// Marshal encodes m as a JSON object tagged with its type.
func Marshal(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", domain.ErrProtocol)
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", domain.ErrProtocol, m.Type(), err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%w: %s did not encode as an object", domain.ErrProtocol, m.Type())
	}
	tag, err := json.Marshal(envelope{Type: m.Type()})
	if err != nil {
		return nil, fmt.Errorf("%w: encode tag: %v", domain.ErrProtocol, err)
	}
	// Splice the tag into the body object: {"type":"X"} + {...} => {"type":"X",...}
	fields := bytes.TrimSpace(body[1 : len(body)-1])
	var buf bytes.Buffer
	buf.Grow(len(tag) + len(fields) + 1)
	buf.Write(tag[:len(tag)-1])
	if len(fields) > 0 {
		buf.WriteByte(',')
		buf.Write(fields)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes a tagged JSON object into its concrete message type.
// Unknown or missing tags and malformed JSON are protocol errors.
func Unmarshal(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", domain.ErrProtocol, err)
	}

	var m Message
	switch env.Type {
	case TypeNewAccountRequest:
		m = &NewAccountRequest{}
	case TypeLoginRequest:
		m = &LoginRequest{}
	case TypeAssignIdentity:
		m = &AssignIdentity{}
	case TypeConnectWithContactRequest:
		m = &ConnectWithContactRequest{}
	case TypeConnectWithContactResponse:
		m = &ConnectWithContactResponse{}
	case TypeSendMessageRequest:
		m = &SendMessageRequest{}
	case "":
		return nil, fmt.Errorf("%w: missing type tag", domain.ErrProtocol)
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", domain.ErrProtocol, env.Type)
	}

	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrProtocol, env.Type, err)
	}
	return m, nil
}
