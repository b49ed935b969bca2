package models

// MessageKind discriminates the supported message payload kinds. It is the
// "message_type" field of a sealed conversation payload; a payload without a
// recognized kind counts as already consumed.
type MessageKind string

const (
	KindText      MessageKind = "text"
	KindPhoto     MessageKind = "photo"
	KindVideo     MessageKind = "video"
	KindAnimation MessageKind = "animation"
	KindDocument  MessageKind = "document"
	KindSticker   MessageKind = "sticker"
	KindVoice     MessageKind = "voice"
	KindVideoNote MessageKind = "video_note"
	KindAudio     MessageKind = "audio"
)

// Valid reports whether k is one of the closed set of supported kinds.
func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindPhoto, KindVideo, KindAnimation, KindDocument,
		KindSticker, KindVoice, KindVideoNote, KindAudio:
		return true
	}
	return false
}

// MessageContent is the tagged payload variant of a conversation record.
// Text carries the message text; every other kind carries the platform file
// reference and an optional caption.
type MessageContent struct {
	Kind    MessageKind `json:"message_type,omitempty"`
	Text    string      `json:"message_text,omitempty"`
	FileID  string      `json:"file_id,omitempty"`
	Caption string      `json:"caption,omitempty"`
}

// NewText builds a text payload.
func NewText(text string) MessageContent {
	return MessageContent{Kind: KindText, Text: text}
}

// NewMedia builds a media payload of the given kind.
func NewMedia(kind MessageKind, fileID, caption string) MessageContent {
	return MessageContent{Kind: kind, FileID: fileID, Caption: caption}
}

// IsZero reports whether the payload is cleared or unrecognized.
func (c MessageContent) IsZero() bool {
	return !c.Kind.Valid()
}
