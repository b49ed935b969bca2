package relay

// Outcome is the user-facing result of a state-machine transition. Handlers
// return it after already sending the matching reply text, so collaborators
// (webhook routing, tests) can branch on what happened without re-deriving
// it from message content.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeNoConversationFound
	OutcomeSelfMessageDisallowed
	OutcomeSenderBlocked
	OutcomeRateLimited
	OutcomeAlreadyUnblocked
	OutcomeGenericError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeNoConversationFound:
		return "no_conversation_found"
	case OutcomeSelfMessageDisallowed:
		return "self_message_disallowed"
	case OutcomeSenderBlocked:
		return "sender_blocked"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeAlreadyUnblocked:
		return "already_unblocked"
	default:
		return "generic_error"
	}
}
