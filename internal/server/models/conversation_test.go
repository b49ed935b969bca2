package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageKind_Valid(t *testing.T) {
	for _, k := range []MessageKind{
		KindText, KindPhoto, KindVideo, KindAnimation, KindDocument,
		KindSticker, KindVoice, KindVideoNote, KindAudio,
	} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, MessageKind("").Valid())
	assert.False(t, MessageKind("poll").Valid())
}

func TestConversationRecord_Consumed(t *testing.T) {
	r := ConversationRecord{
		Connection: Connection{Sender: 1, Recipient: 2},
		Message:    NewText("hi"),
	}
	assert.False(t, r.Consumed())

	r.ClearPayload()
	assert.True(t, r.Consumed())
	assert.Equal(t, Connection{Sender: 1, Recipient: 2}, r.Connection,
		"clearing the payload must keep the connection metadata")
}

// A payload lacking a recognized message_type discriminant is equivalent to
// "already consumed", whatever else it contains.
func TestConversationRecord_UnrecognizedKindIsConsumed(t *testing.T) {
	var r ConversationRecord
	require.NoError(t, json.Unmarshal(
		[]byte(`{"connection":{"from":1,"to":2},"message":{"message_type":"unknown","message_text":"x"}}`), &r))
	assert.True(t, r.Consumed())

	require.NoError(t, json.Unmarshal(
		[]byte(`{"connection":{"from":1,"to":2},"message":{}}`), &r))
	assert.True(t, r.Consumed())
}

func TestMessageContent_JSONDiscriminant(t *testing.T) {
	b, err := json.Marshal(NewText("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message_type":"text","message_text":"hi"}`, string(b))

	b, err = json.Marshal(NewMedia(KindPhoto, "file-1", "caption"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message_type":"photo","file_id":"file-1","caption":"caption"}`, string(b))
}

func TestBlockList_Blocked(t *testing.T) {
	var nilList BlockList
	assert.False(t, nilList.Blocked(1))

	list := BlockList{42: true}
	assert.True(t, list.Blocked(42))
	assert.False(t, list.Blocked(43))

	// round-trips through JSON with numeric keys
	b, err := json.Marshal(list)
	require.NoError(t, err)
	var back BlockList
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Blocked(42))
}
