package ports

import (
	"BazarBot/internal/core/domain"
	"context"
)

// CommandHandler handles one slash command.
type CommandHandler interface {
	// Command returns the command name without the slash, e.g. "start".
	Command() string
	Handle(ctx context.Context, update *BotUpdate, user *domain.User) error
}

// CallbackHandler handles callback queries whose data starts with Prefix.
type CallbackHandler interface {
	// Prefix returns the callback-data prefix, e.g. "approve_".
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate, user *domain.User) error
}

// MessageHandler handles a plain (non-command) message.
type MessageHandler interface {
	Handle(ctx context.Context, update *BotUpdate, user *domain.User) error
}

// MessageHandlerFunc adapts a function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, update *BotUpdate, user *domain.User) error

func (f MessageHandlerFunc) Handle(ctx context.Context, update *BotUpdate, user *domain.User) error {
	return f(ctx, update, user)
}
