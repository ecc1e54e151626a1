package bot

import (
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
)

// command adapts a handler function to the CommandHandler interface, for
// commands that live on a larger handler struct.
type command struct {
	name string
	fn   ports.MessageHandlerFunc
}

// NewCommand wraps fn as the handler for /name.
func NewCommand(name string, fn ports.MessageHandlerFunc) ports.CommandHandler {
	return &command{name: name, fn: fn}
}

func (c *command) Command() string { return c.name }

func (c *command) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	return c.fn(ctx, update, user)
}
