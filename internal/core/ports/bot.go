package ports

import (
	"context"
)

// --- Bot Message Structures ---

// Button represents a single button in a keyboard.
type Button struct {
	Text            string
	Data            string // for inline callback buttons
	URL             string // for inline URL buttons
	RequestLocation bool   // for reply-keyboard location buttons
}

// ReplyMarkup represents any kind of keyboard markup.
type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool // differentiates between inline and reply keyboards
}

// SendMessageParams holds all options for sending a text message.
type SendMessageParams struct {
	ChatID         int64
	Text           string
	ParseMode      string // e.g. "HTML"
	ReplyMarkup    *ReplyMarkup
	RemoveKeyboard bool
	ReplyTo        int // message id to reply to, 0 for none
}

// SendPhotoParams holds the options for sending a single photo.
type SendPhotoParams struct {
	ChatID      int64
	FileID      string
	Caption     string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// SendAlbumParams holds the options for sending a grouped photo album.
// The caption is attached to the first photo.
type SendAlbumParams struct {
	ChatID    int64
	FileIDs   []string
	Caption   string
	ParseMode string
}

// EditMessageTextParams edits the text (and keyboard) of a text message.
type EditMessageTextParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup // inline only; nil removes the keyboard
}

// EditMessageCaptionParams edits the caption of a media message.
type EditMessageCaptionParams struct {
	ChatID      int64
	MessageID   int
	Caption     string
	ParseMode   string
	ReplyMarkup *ReplyMarkup // inline only; nil removes the keyboard
}

// EditReplyMarkupParams replaces (or removes) a message's inline keyboard.
type EditReplyMarkupParams struct {
	ChatID      int64
	MessageID   int
	ReplyMarkup *ReplyMarkup // nil removes the keyboard
}

// AnswerCallbackParams acknowledges a callback query so the client's
// spinner stops; Text shows a toast, ShowAlert a modal.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort is the outbound chat-transport interface the core logic
// calls. Send operations return the id of the delivered message so it can
// be edited later.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) (int, error)
	SendPhoto(ctx context.Context, params SendPhotoParams) (int, error)
	// SendAlbum returns the message id of the first item in the group.
	SendAlbum(ctx context.Context, params SendAlbumParams) (int, error)
	EditMessageText(ctx context.Context, params EditMessageTextParams) error
	EditMessageCaption(ctx context.Context, params EditMessageCaptionParams) error
	EditReplyMarkup(ctx context.Context, params EditReplyMarkupParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	// GetChatUsername fetches the public username of a chat (empty for
	// private channels), used to build t.me links to published posts.
	GetChatUsername(ctx context.Context, chatID int64) (string, error)
	SetMenuCommands(ctx context.Context) error
}

// --- Inbound Update Model ---

// PhotoInfo is the largest size of an attached photo.
type PhotoInfo struct {
	FileID   string
	FileSize int
}

// LocationInfo is an attached geolocation.
type LocationInfo struct {
	Latitude  float64
	Longitude float64
}

// BotUpdate is the simplified, transport-agnostic update the router and
// all handlers work with.
type BotUpdate struct {
	MessageID int
	ChatID    int64
	UserID    int64

	Username  string
	FirstName string
	LastName  string

	Text        string
	Command     string
	CommandArgs string

	Photo    *PhotoInfo
	Location *LocationInfo

	CallbackQueryID string
	CallbackData    *string
}

// IsCallback reports whether the update is a callback query.
func (u *BotUpdate) IsCallback() bool {
	return u.CallbackData != nil
}
