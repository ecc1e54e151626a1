package messages

import (
	"BazarBot/internal/core/ports"
)

// Builder assembles SendMessageParams fluently. HTML is the default
// parse mode, so every caller that forgets to set one still renders
// the <b>/<i> tags the text catalog uses.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder starts a message for the given chat.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: "HTML",
		},
	}
}

// WithText sets the message body.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithParseMode overrides the default HTML parse mode. Pass an empty
// string to send plain text (used for relayed user content).
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithReplyTo quotes another message in the same chat.
func (b *Builder) WithReplyTo(messageID int) *Builder {
	b.params.ReplyTo = messageID
	return b
}

// WithRemoveKeyboard clears any reply keyboard on the user's side.
func (b *Builder) WithRemoveKeyboard() *Builder {
	b.params.RemoveKeyboard = true
	b.params.ReplyMarkup = nil
	return b
}

// WithInlineButtons attaches an inline keyboard.
func (b *Builder) WithInlineButtons(rows ...[]ports.Button) *Builder {
	b.params.RemoveKeyboard = false
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: rows, IsInline: true}
	return b
}

// WithReplyButtons attaches a reply keyboard.
func (b *Builder) WithReplyButtons(rows ...[]ports.Button) *Builder {
	b.params.RemoveKeyboard = false
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: rows, IsInline: false}
	return b
}

// Build returns the assembled params.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

// Row is a small helper for keyboard construction.
func Row(buttons ...ports.Button) []ports.Button {
	return buttons
}

// Btn makes an inline callback button.
func Btn(text, data string) ports.Button {
	return ports.Button{Text: text, Data: data}
}

// URLBtn makes an inline URL button.
func URLBtn(text, url string) ports.Button {
	return ports.Button{Text: text, URL: url}
}

// TextBtn makes a plain reply-keyboard button.
func TextBtn(text string) ports.Button {
	return ports.Button{Text: text}
}

// LocationBtn makes a reply-keyboard button that requests the user's
// location.
func LocationBtn(text string) ports.Button {
	return ports.Button{Text: text, RequestLocation: true}
}
