package ticket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_MintProducesUniqueTickets(t *testing.T) {
	m := NewManager("app-secure-key")

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tk, err := m.Mint()
		require.NoError(t, err)
		enc := tk.Encode()
		if _, dup := seen[enc]; dup {
			t.Fatal("duplicate ticket minted")
		}
		seen[enc] = struct{}{}
	}
}

func TestTicket_RedactedFormatting(t *testing.T) {
	m := NewManager("")
	tk, err := m.Mint()
	require.NoError(t, err)

	assert.Equal(t, "ticket(redacted)", tk.String())
	assert.NotContains(t, fmt.Sprintf("%v %s %#v", tk, tk, tk), tk.Encode())
}

func TestTicket_ParseRoundTrip(t *testing.T) {
	m := NewManager("app-secure-key")
	tk, err := m.Mint()
	require.NoError(t, err)

	parsed, err := Parse(tk.Encode())
	require.NoError(t, err)

	id1, err := m.ConversationID(tk)
	require.NoError(t, err)
	id2, err := m.ConversationID(parsed)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "parsed ticket must derive the same conversation ID")

	_, err = Parse("!!!not-base64!!!")
	assert.Error(t, err)
}

func TestManager_ConversationIDStable(t *testing.T) {
	m := NewManager("app-secure-key")
	tk, err := m.Mint()
	require.NoError(t, err)

	a, err := m.ConversationID(tk)
	require.NoError(t, err)
	b, err := m.ConversationID(tk)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Mint a ticket, seal a payload, store it under the derived conversation ID,
// then find and open it again with nothing but the ticket.
func TestManager_StoreAndRecoverScenario(t *testing.T) {
	m := NewManager("app-secure-key")

	type payload struct {
		MessageType string `json:"message_type"`
		MessageText string `json:"message_text"`
	}

	tk, err := m.Mint()
	require.NoError(t, err)

	blob, err := m.Seal(tk, payload{MessageType: "text", MessageText: "hi"})
	require.NoError(t, err)

	store := map[string]string{}
	convID, err := m.ConversationID(tk)
	require.NoError(t, err)
	store[convID] = blob

	// later: only the ticket is known
	recomputed, err := m.ConversationID(tk)
	require.NoError(t, err)
	stored, ok := store[recomputed]
	require.True(t, ok, "record must be findable by recomputing the ID")

	var got payload
	require.NoError(t, m.Open(tk, stored, &got))
	assert.Equal(t, payload{MessageType: "text", MessageText: "hi"}, got)

	// a different manager secret must neither find nor open the record
	other := NewManager("different-app-key")
	otherID, err := other.ConversationID(tk)
	require.NoError(t, err)
	assert.NotEqual(t, recomputed, otherID)
	assert.Error(t, other.Open(tk, stored, &got))
}
