package telegram

import (
	"fmt"
	"strings"

	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/ticket"
)

// Callback actions carried in inline-button payloads as "<action>:<ticket>".
const (
	ActionReply   = "reply"
	ActionBlock   = "block"
	ActionUnblock = "unblock"
)

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type KeyboardButton struct {
	Text string `json:"text"`
}

type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

type ForceReply struct {
	ForceReply bool `json:"force_reply"`
}

// controlsMarkup builds the reply/block inline keyboard for a delivered
// message. The ticket rides inside the callback payloads; the buttons are
// the only place it surfaces client-side.
func controlsMarkup(spec relay.ControlSpec) InlineKeyboardMarkup {
	encoded := spec.Ticket.Encode()

	toggle := InlineKeyboardButton{
		Text:         "Block",
		CallbackData: ActionBlock + ":" + encoded,
	}
	if spec.Blocked {
		toggle = InlineKeyboardButton{
			Text:         "Unblock",
			CallbackData: ActionUnblock + ":" + encoded,
		}
	}

	return InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{{
		InlineKeyboardButton{Text: "Reply", CallbackData: ActionReply + ":" + encoded},
		toggle,
	}}}
}

func menuMarkup(spec relay.MenuSpec) ReplyKeyboardMarkup {
	rows := make([][]KeyboardButton, 0, len(spec.Rows))
	for _, row := range spec.Rows {
		buttons := make([]KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, KeyboardButton{Text: label})
		}
		rows = append(rows, buttons)
	}
	return ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

// ParseCallback splits an inline-button payload into its action and ticket.
func ParseCallback(data string) (string, ticket.Ticket, error) {
	action, encoded, found := strings.Cut(data, ":")
	if !found {
		return "", ticket.Ticket{}, fmt.Errorf("malformed callback data")
	}

	switch action {
	case ActionReply, ActionBlock, ActionUnblock:
	default:
		return "", ticket.Ticket{}, fmt.Errorf("unknown callback action %q", action)
	}

	t, err := ticket.Parse(encoded)
	if err != nil {
		return "", ticket.Ticket{}, err
	}
	return action, t, nil
}
