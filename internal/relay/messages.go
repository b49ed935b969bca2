package relay

// User-facing texts. Rejections are specific enough to act on but never say
// which internal step failed: a bad ticket, a missing record and a broken
// blob all read the same, so ticket validity cannot be probed.
const (
	WelcomeMessage = "Welcome! Share your personal link and strangers can message you anonymously:\n%s"
	LinkMessage    = "Your personal link:\n%s"

	StartConversationMessage = "You are writing to %s. Send your message now: text, photo, video, voice and more are supported."
	MessageSentMessage       = "Your message has been delivered anonymously."
	ReplyPromptMessage       = "Write your reply; the next message you send goes back anonymously."

	NoConversationFoundMessage = "No conversation found for this link."
	SelfMessageMessage         = "You cannot message yourself."
	RateLimitMessage           = "You are sending messages too quickly. Wait a moment and try again."
	BlockedMessage             = "You cannot message this user."
	UserBlockedMessage         = "This user is blocked. They can no longer message you."
	UserUnblockedMessage       = "This user is unblocked and can message you again."
	NothingToUnblockMessage    = "Nothing to do, this user is not blocked."

	InboxEmptyMessage   = "Your inbox is empty."
	InboxSummaryMessage = "%d message(s) arrived since your last check."

	AccountDeletedMessage = "Your account and link have been deleted. Send /start to begin again."
	AboutMessage          = "This bot relays messages between strangers without revealing who is who."
	PrivacyMessage        = "Messages are sealed with a per-conversation key and erased once read. Identities are never shared."

	HuhMessage = "Hmm, something went wrong. Try again."
)
