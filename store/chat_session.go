package store

// ChatSession is one conversation record. OwnerID is a user or Steam
// identity, or "anonymous" for unauthenticated sessions.
type ChatSession struct {
	ID        int32
	UID       string
	OwnerID   string
	CreatedTs int64
	UpdatedTs int64
}

type FindChatSession struct {
	ID      *int32
	UID     *string
	OwnerID *string
}

type UpdateChatSession struct {
	ID        int32
	UpdatedTs *int64
}

// ChatMessageRole is the tagged role of a turn. Anything outside the two
// canonical roles is normalized to ASSISTANT before a completion call.
type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "USER"
	ChatMessageRoleAssistant ChatMessageRole = "ASSISTANT"
)

// ChatMessage is one turn in a session. Turns are append-only and ordered
// chronologically by id.
type ChatMessage struct {
	ID        int32
	SessionID int32
	Role      ChatMessageRole
	Content   string
	CreatedTs int64
}

type FindChatMessage struct {
	ID        *int32
	SessionID *int32
}
