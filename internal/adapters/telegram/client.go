package telegram

import (
	"BazarBot/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// tgClient implements the BotClientPort.
type tgClient struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

// NewClient creates a new Telegram client adapter.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	log := baseLogger.With().Str("component", "tg_client").Logger()
	return &tgClient{api: api, log: log}
}

// SendMessage translates our params into a tgbotapi message and returns
// the delivered message id.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyTo != 0 {
		msg.ReplyToMessageID = params.ReplyTo
	}

	if params.RemoveKeyboard {
		msg.ReplyMarkup = tgbotapi.ReplyKeyboardRemove{RemoveKeyboard: true}
	} else if params.ReplyMarkup != nil {
		if params.ReplyMarkup.IsInline {
			msg.ReplyMarkup = c.buildInlineKeyboard(params.ReplyMarkup.Buttons)
		} else {
			msg.ReplyMarkup = c.buildReplyKeyboard(params.ReplyMarkup.Buttons)
		}
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return 0, err
	}
	return sent.MessageID, nil
}

// SendPhoto sends a single photo by Telegram file id.
func (c *tgClient) SendPhoto(ctx context.Context, params ports.SendPhotoParams) (int, error) {
	msg := tgbotapi.NewPhoto(params.ChatID, tgbotapi.FileID(params.FileID))
	msg.Caption = params.Caption
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil && params.ReplyMarkup.IsInline {
		msg.ReplyMarkup = c.buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send photo")
		return 0, err
	}
	return sent.MessageID, nil
}

// SendAlbum sends a grouped photo album with the caption on the first
// item, and returns that first message's id.
func (c *tgClient) SendAlbum(ctx context.Context, params ports.SendAlbumParams) (int, error) {
	media := make([]interface{}, 0, len(params.FileIDs))
	for i, fileID := range params.FileIDs {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(fileID))
		if i == 0 {
			photo.Caption = params.Caption
			photo.ParseMode = params.ParseMode
		}
		media = append(media, photo)
	}

	group := tgbotapi.NewMediaGroup(params.ChatID, media)
	messages, err := c.api.SendMediaGroup(group)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Int("photos", len(params.FileIDs)).Msg("Failed to send media group")
		return 0, err
	}
	if len(messages) == 0 {
		c.log.Error().Int64("chat_id", params.ChatID).Msg("Media group send returned no messages")
		return 0, errEmptyMediaGroup
	}
	return messages[0].MessageID, nil
}

// EditMessageText edits an existing text message.
func (c *tgClient) EditMessageText(ctx context.Context, params ports.EditMessageTextParams) error {
	msg := tgbotapi.NewEditMessageText(params.ChatID, params.MessageID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil && params.ReplyMarkup.IsInline {
		markup := c.buildInlineKeyboard(params.ReplyMarkup.Buttons)
		msg.ReplyMarkup = &markup
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message text")
		return err
	}
	return nil
}

// EditMessageCaption edits the caption of an existing media message.
func (c *tgClient) EditMessageCaption(ctx context.Context, params ports.EditMessageCaptionParams) error {
	msg := tgbotapi.NewEditMessageCaption(params.ChatID, params.MessageID, params.Caption)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil && params.ReplyMarkup.IsInline {
		markup := c.buildInlineKeyboard(params.ReplyMarkup.Buttons)
		msg.ReplyMarkup = &markup
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message caption")
		return err
	}
	return nil
}

// EditReplyMarkup replaces a message's inline keyboard; nil removes it.
func (c *tgClient) EditReplyMarkup(ctx context.Context, params ports.EditReplyMarkupParams) error {
	markup := tgbotapi.NewInlineKeyboardMarkup()
	markup.InlineKeyboard = [][]tgbotapi.InlineKeyboardButton{}
	if params.ReplyMarkup != nil && params.ReplyMarkup.IsInline {
		markup = c.buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	msg := tgbotapi.NewEditMessageReplyMarkup(params.ChatID, params.MessageID, markup)
	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit reply markup")
		return err
	}
	return nil
}

// AnswerCallbackQuery sends a response to a callback query (stops the spinner).
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	callbackConfig := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	callbackConfig.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(callbackConfig); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}

// GetChatUsername fetches the public username of a chat.
func (c *tgClient) GetChatUsername(ctx context.Context, chatID int64) (string, error) {
	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to get chat info")
		return "", err
	}
	return chat.UserName, nil
}

// SetMenuCommands sets the bot's /menu commands.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Головне меню"},
		{Command: "cancel", Description: "Скасувати поточну дію"},
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := c.api.Request(config); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

// buildInlineKeyboard is a helper to create the inline keyboard.
func (c *tgClient) buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.InlineKeyboardButton
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildReplyKeyboard is a helper to create the reply (non-inline) keyboard.
func (c *tgClient) buildReplyKeyboard(buttons [][]ports.Button) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.KeyboardButton
		for _, btn := range buttonRow {
			if btn.RequestLocation {
				row = append(row, tgbotapi.NewKeyboardButtonLocation(btn.Text))
			} else {
				row = append(row, tgbotapi.NewKeyboardButton(btn.Text))
			}
		}
		rows = append(rows, row)
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}
