package telegram

import (
	"context"
	"fmt"

	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/server/models"
)

// sendPayload is the superset request body shared by the send* methods.
// Only the field matching the chosen method is populated.
type sendPayload struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text,omitempty"`
	ParseMode        string `json:"parse_mode,omitempty"`
	Caption          string `json:"caption,omitempty"`
	Photo            string `json:"photo,omitempty"`
	Video            string `json:"video,omitempty"`
	Animation        string `json:"animation,omitempty"`
	Document         string `json:"document,omitempty"`
	Sticker          string `json:"sticker,omitempty"`
	Voice            string `json:"voice,omitempty"`
	VideoNote        string `json:"video_note,omitempty"`
	Audio            string `json:"audio,omitempty"`
	HasSpoiler       bool   `json:"has_spoiler,omitempty"`
	ReplyToMessageID int    `json:"reply_to_message_id,omitempty"`
	ReplyMarkup      any    `json:"reply_markup,omitempty"`
}

func markupFor(opts relay.SendOptions) any {
	switch {
	case opts.Controls != nil:
		return controlsMarkup(*opts.Controls)
	case opts.Menu != nil:
		return menuMarkup(*opts.Menu)
	case opts.ForceReply:
		return ForceReply{ForceReply: true}
	}
	return nil
}

// SendText delivers service text.
func (c *Client) SendText(ctx context.Context, userID int64, text string, opts relay.SendOptions) (int, error) {
	payload := sendPayload{
		ChatID:           userID,
		Text:             text,
		ReplyToMessageID: opts.ReplyTo,
		ReplyMarkup:      markupFor(opts),
	}

	var msg message
	if err := c.call(ctx, "sendMessage", payload, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// SendContent delivers a relayed payload with the bot API method matching
// its kind.
func (c *Client) SendContent(ctx context.Context, userID int64, content models.MessageContent, opts relay.SendOptions) (int, error) {
	payload := sendPayload{
		ChatID:           userID,
		Caption:          content.Caption,
		ReplyToMessageID: opts.ReplyTo,
		ReplyMarkup:      markupFor(opts),
	}

	var method string
	switch content.Kind {
	case models.KindText:
		method = "sendMessage"
		if opts.Spoiler {
			payload.Text = SpoilerText(content.Text)
			payload.ParseMode = "MarkdownV2"
		} else {
			payload.Text = content.Text
		}
	case models.KindPhoto:
		method = "sendPhoto"
		payload.Photo = content.FileID
		payload.HasSpoiler = opts.Spoiler
	case models.KindVideo:
		method = "sendVideo"
		payload.Video = content.FileID
		payload.HasSpoiler = opts.Spoiler
	case models.KindAnimation:
		method = "sendAnimation"
		payload.Animation = content.FileID
		payload.HasSpoiler = opts.Spoiler
	case models.KindDocument:
		method = "sendDocument"
		payload.Document = content.FileID
	case models.KindSticker:
		method = "sendSticker"
		payload.Sticker = content.FileID
		payload.Caption = ""
	case models.KindVoice:
		method = "sendVoice"
		payload.Voice = content.FileID
	case models.KindVideoNote:
		method = "sendVideoNote"
		payload.VideoNote = content.FileID
		payload.Caption = ""
	case models.KindAudio:
		method = "sendAudio"
		payload.Audio = content.FileID
	default:
		return 0, fmt.Errorf("unsupported message kind %q", content.Kind)
	}

	var msg message
	if err := c.call(ctx, method, payload, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// UpdateControls rewrites the inline keyboard of an already delivered
// message, e.g. flipping Block to Unblock.
func (c *Client) UpdateControls(ctx context.Context, userID int64, messageID int, controls relay.ControlSpec) error {
	body := map[string]any{
		"chat_id":      userID,
		"message_id":   messageID,
		"reply_markup": controlsMarkup(controls),
	}
	return c.call(ctx, "editMessageReplyMarkup", body, nil)
}

var _ relay.Sender = (*Client)(nil)
