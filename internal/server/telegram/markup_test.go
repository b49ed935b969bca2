package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/ticket"
)

func TestControlsMarkupToggles(t *testing.T) {
	tm := ticket.NewManager("")
	tkt, err := tm.Mint()
	require.NoError(t, err)

	open := controlsMarkup(relay.ControlSpec{Ticket: tkt})
	require.Len(t, open.InlineKeyboard, 1)
	require.Len(t, open.InlineKeyboard[0], 2)
	assert.Equal(t, "Reply", open.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Block", open.InlineKeyboard[0][1].Text)

	blocked := controlsMarkup(relay.ControlSpec{Ticket: tkt, Blocked: true})
	assert.Equal(t, "Unblock", blocked.InlineKeyboard[0][1].Text)
	assert.Equal(t, ActionUnblock+":"+tkt.Encode(), blocked.InlineKeyboard[0][1].CallbackData)
}

func TestParseCallbackRoundtrip(t *testing.T) {
	tm := ticket.NewManager("")
	tkt, err := tm.Mint()
	require.NoError(t, err)

	markup := controlsMarkup(relay.ControlSpec{Ticket: tkt})
	for _, button := range markup.InlineKeyboard[0] {
		action, parsed, err := ParseCallback(button.CallbackData)
		require.NoError(t, err)
		assert.Contains(t, []string{ActionReply, ActionBlock}, action)
		assert.Equal(t, tkt.Encode(), parsed.Encode())
	}
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"reply",
		"delete:AAAA",
		"reply:%%%not-base64%%%",
	}
	for _, data := range cases {
		_, _, err := ParseCallback(data)
		assert.Error(t, err, "data %q", data)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `a\.b\*c\_d`, EscapeMarkdownV2("a.b*c_d"))
	assert.Equal(t, "plain", EscapeMarkdownV2("plain"))
}
