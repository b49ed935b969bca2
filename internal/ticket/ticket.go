// Package ticket implements the conversation identity and encryption
// protocol. A ticket is a single-use secret that both names a conversation
// (through deterministic public-key derivation) and decrypts its payload:
// possession of the ticket is the lookup capability and the decryption
// capability at once, so no separate key store exists.
package ticket

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
)

// Ticket is a bearer capability, deliberately distinct from a plain string
// so it cannot be mixed with unrelated identifiers. Its fmt output is
// redacted; use Encode when the value itself is needed (callback payloads,
// inbox queue items).
type Ticket struct {
	secret []byte
}

var _ fmt.Stringer = Ticket{}

// Encode returns the Base64 transport form of the ticket secret.
func (t Ticket) Encode() string {
	return EncodeKey(t.secret)
}

// String redacts the secret so tickets never leak through logs or %v.
func (t Ticket) String() string {
	return "ticket(redacted)"
}

// GoString redacts %#v output as well.
func (t Ticket) GoString() string {
	return "ticket.Ticket(redacted)"
}

// Parse decodes the Base64 transport form back into a Ticket.
func Parse(s string) (Ticket, error) {
	secret, err := DecodeKey(s)
	if err != nil {
		return Ticket{}, fmt.Errorf("decoding ticket: %w", err)
	}
	return Ticket{secret: secret}, nil
}

// Manager orchestrates identity derivation and payload sealing under a
// shared app-wide secure key. The app key is mixed identically into both
// operations; a mismatch would save records under one ID and look them up
// under another.
type Manager struct {
	appKey []byte
}

// NewManager creates a Manager. An empty appSecureKey selects the
// single-secret variant of the protocol.
func NewManager(appSecureKey string) *Manager {
	var key []byte
	if appSecureKey != "" {
		key = []byte(appSecureKey)
	}
	return &Manager{appKey: key}
}

// Mint generates a fresh random ticket secret.
func (m *Manager) Mint() (Ticket, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return Ticket{}, err
	}
	return Ticket{secret: secret}, nil
}

// ConversationID computes the public identifier the ticket's conversation
// record is stored under.
func (m *Manager) ConversationID(t Ticket) (string, error) {
	id, err := DerivePublicID(t.secret, m.appKey)
	if err != nil {
		return "", err
	}
	return EncodeKey(id), nil
}

// Seal serializes v to JSON and encrypts it under the ticket.
func (m *Manager) Seal(t Ticket, v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Seal(t.secret, m.appKey, plaintext)
}

// Open decrypts a blob sealed under the ticket and unmarshals it into v.
func (m *Manager) Open(t Ticket, blob string, v any) error {
	plaintext, err := Open(t.secret, m.appKey, blob)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
