// Package models defines the persisted domain records of the relay: users,
// conversation records and the message payload union. All of them travel as
// JSON, either sealed under a ticket or stored in the KV namespaces.
package models

// Connection is the metadata linking an anonymous sender to an anonymous
// recipient. ParentMessageID is the delivered message in the recipient's
// chat (the one carrying the inline controls); ReplyToMessageID is the
// message in the sender's chat a later reply should thread under.
type Connection struct {
	Sender           int64 `json:"from"`
	Recipient        int64 `json:"to"`
	ParentMessageID  int   `json:"parent_message_id,omitempty"`
	ReplyToMessageID int   `json:"reply_to_message_id,omitempty"`
}

// ConversationRecord is persisted sealed, keyed by the conversation ID
// derived from the ticket it was encrypted under. That binding is the
// invariant the whole protocol rests on: lookup requires possession of the
// ticket.
type ConversationRecord struct {
	Connection Connection     `json:"connection"`
	Message    MessageContent `json:"message,omitempty"`
}

// Consumed reports whether the payload has been cleared by a previous
// delivery. Connection metadata stays behind for block/unblock actions
// referencing the same ticket.
func (r *ConversationRecord) Consumed() bool {
	return r.Message.IsZero()
}

// ClearPayload erases the message content in place, keeping the connection.
// This is the read-once semantic, not full deletion.
func (r *ConversationRecord) ClearPayload() {
	r.Message = MessageContent{}
}

// CurrentConversation is the ephemeral per-user pointer: the next inbound
// message from the user is the body for this target, not a command. At most
// one exists per user; it is deleted as soon as the pending message is sent.
type CurrentConversation struct {
	To               int64 `json:"to"`
	ParentMessageID  int   `json:"parent_message_id,omitempty"`
	ReplyToMessageID int   `json:"reply_to_message_id,omitempty"`
}
