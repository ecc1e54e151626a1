package ports

import "context"

// ChatRole tags one side of an AI conversation turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is one prior message in an AI conversation, oldest first.
type ChatTurn struct {
	Role    ChatRole
	Content string
}

// Completer produces a reply for free-form user text. Implementations
// never fail: on any transport, credential or parsing problem they
// degrade to a locally generated canned reply, so callers cannot tell
// (and never need to know) whether the reply came from the model.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []ChatTurn) string
}
