// Package webhook is the inbound HTTP surface: the bot platform posts
// updates here, plus a health probe and a token-guarded stats endpoint.
package webhook

import (
	"github.com/anongap/anongap/internal/server/models"
)

// Update is the envelope the platform posts to the webhook.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// DisplayName prefers the public username, falling back to the first name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

type FileRef struct {
	FileID string `json:"file_id"`
}

type Message struct {
	MessageID int       `json:"message_id"`
	From      *User     `json:"from"`
	Text      string    `json:"text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Photo     []FileRef `json:"photo,omitempty"`
	Video     *FileRef  `json:"video,omitempty"`
	Animation *FileRef  `json:"animation,omitempty"`
	Document  *FileRef  `json:"document,omitempty"`
	Sticker   *FileRef  `json:"sticker,omitempty"`
	Voice     *FileRef  `json:"voice,omitempty"`
	VideoNote *FileRef  `json:"video_note,omitempty"`
	Audio     *FileRef  `json:"audio,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data"`
}

// content maps the inbound message onto the relay's payload union. An
// unsupported message (poll, location, ...) comes back zero.
func (m *Message) content() models.MessageContent {
	switch {
	case m.Text != "":
		return models.NewText(m.Text)
	case len(m.Photo) > 0:
		// The platform lists photo renditions smallest first.
		return models.NewMedia(models.KindPhoto, m.Photo[len(m.Photo)-1].FileID, m.Caption)
	case m.Video != nil:
		return models.NewMedia(models.KindVideo, m.Video.FileID, m.Caption)
	case m.Animation != nil:
		return models.NewMedia(models.KindAnimation, m.Animation.FileID, m.Caption)
	case m.Document != nil:
		return models.NewMedia(models.KindDocument, m.Document.FileID, m.Caption)
	case m.Sticker != nil:
		return models.NewMedia(models.KindSticker, m.Sticker.FileID, "")
	case m.Voice != nil:
		return models.NewMedia(models.KindVoice, m.Voice.FileID, m.Caption)
	case m.VideoNote != nil:
		return models.NewMedia(models.KindVideoNote, m.VideoNote.FileID, "")
	case m.Audio != nil:
		return models.NewMedia(models.KindAudio, m.Audio.FileID, m.Caption)
	}
	return models.MessageContent{}
}
