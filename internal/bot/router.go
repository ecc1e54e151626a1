package bot

import (
	"BazarBot/internal/bot/admin"
	"BazarBot/internal/bot/customer"
	"BazarBot/internal/bot/handoff"
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/bot/wizard"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Router turns raw Telegram updates into handler calls. Precedence for
// every update: upsert the user, short-circuit blocked chats, then
// commands, callbacks by prefix, status-routed flows, main-menu labels,
// and finally the per-type fallback.
type Router struct {
	users ports.UserRepository
	bot   ports.BotClientPort
	bus   ports.EventBus

	wizard   *wizard.Wizard
	handoff  *handoff.Handoff
	customer *customer.Handlers
	panel    *admin.Panel

	commands  map[string]ports.CommandHandler
	callbacks []ports.CallbackHandler

	adminChatID int64
	log         zerolog.Logger
}

// NewRouter wires the dispatch core. Commands and callback handlers are
// registered explicitly by the caller.
func NewRouter(
	users ports.UserRepository,
	botClient ports.BotClientPort,
	bus ports.EventBus,
	wiz *wizard.Wizard,
	ho *handoff.Handoff,
	cust *customer.Handlers,
	panel *admin.Panel,
	adminChatID int64,
	baseLogger *zerolog.Logger,
) *Router {
	return &Router{
		users:       users,
		bot:         botClient,
		bus:         bus,
		wizard:      wiz,
		handoff:     ho,
		customer:    cust,
		panel:       panel,
		commands:    make(map[string]ports.CommandHandler),
		adminChatID: adminChatID,
		log:         baseLogger.With().Str("component", "router").Logger(),
	}
}

// RegisterCommand adds a slash-command handler.
func (r *Router) RegisterCommand(h ports.CommandHandler) {
	r.commands[h.Command()] = h
	r.log.Info().Str("command", h.Command()).Msg("Command handler registered")
}

// RegisterCallback adds a callback handler; first matching prefix wins.
func (r *Router) RegisterCallback(h ports.CallbackHandler) {
	r.callbacks = append(r.callbacks, h)
	r.log.Info().Str("prefix", h.Prefix()).Msg("Callback handler registered")
}

// HandleUpdate is the per-update entry point called by the bot server
// workers. A failing or panicking handler never takes the worker down:
// the error is logged, published for diagnostics, and the chat gets a
// soft failure notice.
func (r *Router) HandleUpdate(ctx context.Context, raw *tgbotapi.Update) {
	update := parseUpdate(raw)
	if update == nil {
		return
	}

	var user *domain.User
	operation := "parse"

	defer func() {
		if rec := recover(); rec != nil {
			r.reportFailure(ctx, operation, update, user, fmt.Errorf("panic: %v", rec))
		}
	}()

	operation = "upsert_user"
	var err error
	user, err = r.upsertUser(ctx, update)
	if err != nil {
		r.reportFailure(ctx, operation, update, user, err)
		return
	}

	if user.IsBlocked && !r.isAdmin(update.ChatID) {
		r.log.Debug().Int64("chat_id", update.ChatID).Msg("Dropping update from blocked user")
		if update.IsCallback() {
			_ = r.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
				CallbackQueryID: update.CallbackQueryID,
				Text:            messages.YouAreBlocked,
				ShowAlert:       true,
			})
			return
		}
		_, _ = r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.YouAreBlocked).
			Build())
		return
	}

	operation, err = r.dispatch(ctx, update, user)
	if err != nil {
		r.reportFailure(ctx, operation, update, user, err)
	}
}

// dispatch routes one update and returns the operation name for
// diagnostics.
func (r *Router) dispatch(ctx context.Context, update *ports.BotUpdate, user *domain.User) (string, error) {
	if update.Command != "" {
		op := "command:" + update.Command
		handler, ok := r.commands[update.Command]
		if !ok {
			_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
				WithText(messages.UnknownText).
				Build())
			return op, err
		}
		return op, handler.Handle(ctx, update, user)
	}

	if update.IsCallback() {
		data := *update.CallbackData
		for _, handler := range r.callbacks {
			if strings.HasPrefix(data, handler.Prefix()) {
				return "callback:" + handler.Prefix(), handler.Handle(ctx, update, user)
			}
		}
		r.log.Warn().Str("data", data).Int64("chat_id", update.ChatID).Msg("Unroutable callback")
		return "callback:unknown", r.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.UnknownAction,
		})
	}

	if op, handled, err := r.dispatchByStatus(ctx, update, user); handled {
		return op, err
	}

	if op, handled, err := r.dispatchMenuLabel(ctx, update, user); handled {
		return op, err
	}

	return r.fallback(ctx, update)
}

// dispatchByStatus routes messages from chats that are inside a flow.
func (r *Router) dispatchByStatus(ctx context.Context, update *ports.BotUpdate, user *domain.User) (string, bool, error) {
	op := "status:" + string(user.Status)

	switch user.Status {
	case domain.StatusAddingProduct:
		return op, true, r.wizard.HandleMessage(ctx, update, user)

	case domain.StatusConfirmProduct:
		if strings.TrimSpace(update.Text) == messages.BtnCancel {
			return op, true, r.wizard.Cancel(ctx, user)
		}
		_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.WizardUseButtons).
			Build())
		return op, true, err

	case domain.StatusAIChat:
		return op, true, r.customer.HandleAIChat(ctx, update, user)

	case domain.StatusWaitingOperator:
		if strings.TrimSpace(update.Text) == messages.MenuBackToMain {
			return op, true, r.handoff.StopChat(ctx, update, user)
		}
		return op, true, r.handoff.RelayFromUser(ctx, update, user)

	case domain.StatusChattingWithUser:
		return op, true, r.handoff.RelayFromAdmin(ctx, update, user)

	case domain.StatusAwaitingOffer:
		return op, true, r.customer.HandlePersonalOffer(ctx, update, user)

	case domain.StatusAwaitingFAQQ, domain.StatusAwaitingFAQA,
		domain.StatusAwaitingFAQDelete, domain.StatusAwaitingBlockInput:
		return op, true, r.dispatchAdminInput(ctx, update, user)
	}

	return "", false, nil
}

// dispatchAdminInput routes the admin-only awaiting_* statuses. A
// non-admin chat stuck in one of them is reset.
func (r *Router) dispatchAdminInput(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if !r.isAdmin(update.ChatID) {
		r.log.Warn().Int64("chat_id", update.ChatID).Str("status", string(user.Status)).
			Msg("Non-admin chat in an admin status, resetting")
		user.ResetFlow()
		return r.users.Update(ctx, user)
	}

	switch user.Status {
	case domain.StatusAwaitingFAQQ:
		return r.panel.HandleFAQQuestion(ctx, update, user)
	case domain.StatusAwaitingFAQA:
		return r.panel.HandleFAQAnswer(ctx, update, user)
	case domain.StatusAwaitingFAQDelete:
		return r.panel.HandleFAQDelete(ctx, update, user)
	default:
		return r.panel.HandleBlockInput(ctx, update, user)
	}
}

// dispatchMenuLabel routes main-menu reply-keyboard presses.
func (r *Router) dispatchMenuLabel(ctx context.Context, update *ports.BotUpdate, user *domain.User) (string, bool, error) {
	text := strings.TrimSpace(update.Text)

	switch text {
	case messages.MenuAddProduct:
		return "menu:add_product", true, r.wizard.Start(ctx, update, user)
	case messages.MenuMyProducts:
		return "menu:my_products", true, r.customer.ShowMyProducts(ctx, update, user)
	case messages.MenuAIChat:
		return "menu:ai_chat", true, r.customer.StartAIChat(ctx, update, user)
	case messages.MenuFAQ:
		return "menu:faq", true, r.customer.ShowFAQ(ctx, update, user)
	case messages.MenuOperator:
		return "menu:operator", true, r.handoff.RequestOperator(ctx, update, user)
	case messages.MenuPersonalOffer:
		return "menu:personal_offer", true, r.customer.StartPersonalOffer(ctx, update, user)
	case messages.MenuBackToMain:
		_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.MainMenuShort).
			WithReplyButtons(messages.MainMenuRows()...).
			Build())
		return "menu:main", true, err
	}

	return "", false, nil
}

// fallback acknowledges updates nothing else claimed.
func (r *Router) fallback(ctx context.Context, update *ports.BotUpdate) (string, error) {
	switch {
	case update.Photo != nil:
		_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.StrayPhoto).
			Build())
		return "fallback:photo", err
	case update.Location != nil:
		_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.StrayLocation).
			Build())
		return "fallback:location", err
	default:
		_, err := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.UnknownText).
			Build())
		return "fallback:text", err
	}
}

// upsertUser loads the chat's user record, creating it on first contact
// and refreshing the profile snapshot otherwise.
func (r *Router) upsertUser(ctx context.Context, update *ports.BotUpdate) (*domain.User, error) {
	user, err := r.users.GetByChatID(ctx, update.ChatID)
	if err != nil {
		return nil, fmt.Errorf("could not load user: %w", err)
	}

	if user == nil {
		user = &domain.User{
			ID:     uuid.New(),
			ChatID: update.ChatID,
			Status: domain.StatusIdle,
		}
		setOpt(&user.Username, update.Username)
		setOpt(&user.FirstName, update.FirstName)
		setOpt(&user.LastName, update.LastName)

		if err := r.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("could not create user: %w", err)
		}
		r.log.Info().Int64("chat_id", update.ChatID).Msg("New user registered")
		return user, nil
	}

	if err := r.users.Touch(ctx, update.ChatID, update.Username, update.FirstName, update.LastName); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", update.ChatID).Msg("Failed to touch user")
	}
	setOpt(&user.Username, update.Username)
	setOpt(&user.FirstName, update.FirstName)
	setOpt(&user.LastName, update.LastName)

	return user, nil
}

func setOpt(dst **string, value string) {
	if value != "" {
		v := value
		*dst = &v
	}
}

func (r *Router) isAdmin(chatID int64) bool {
	return chatID == r.adminChatID
}

// reportFailure is the error boundary: log, publish for diagnostics,
// tell the chat something went wrong, and drop a half-finished wizard
// so the user is not stuck on a broken step.
func (r *Router) reportFailure(ctx context.Context, operation string, update *ports.BotUpdate, user *domain.User, err error) {
	r.log.Error().Err(err).
		Str("operation", operation).
		Int64("chat_id", update.ChatID).
		Msg("Update handler failed")

	if pubErr := r.bus.Publish(ctx, ports.TopicHandlerError, ports.HandlerError{
		Operation: operation,
		ChatID:    update.ChatID,
		Err:       err.Error(),
	}); pubErr != nil {
		r.log.Error().Err(pubErr).Msg("Failed to publish handler error event")
	}

	if user != nil && user.InWizard() {
		user.ResetFlow()
		if resetErr := r.users.Update(ctx, user); resetErr != nil {
			r.log.Error().Err(resetErr).Int64("chat_id", user.ChatID).Msg("Failed to reset broken wizard")
		}
	}

	if _, sendErr := r.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
		WithText(messages.SomethingWentWrong).
		Build()); sendErr != nil {
		r.log.Error().Err(sendErr).Int64("chat_id", update.ChatID).Msg("Failed to send failure notice")
	}
}

// parseUpdate flattens a tgbotapi update into the transport-agnostic
// shape handlers work with. Unsupported update kinds yield nil.
func parseUpdate(raw *tgbotapi.Update) *ports.BotUpdate {
	if cq := raw.CallbackQuery; cq != nil {
		data := cq.Data
		update := &ports.BotUpdate{
			UserID:          cq.From.ID,
			Username:        cq.From.UserName,
			FirstName:       cq.From.FirstName,
			LastName:        cq.From.LastName,
			CallbackQueryID: cq.ID,
			CallbackData:    &data,
		}
		if cq.Message != nil {
			update.MessageID = cq.Message.MessageID
			update.ChatID = cq.Message.Chat.ID
		} else {
			update.ChatID = cq.From.ID
		}
		return update
	}

	msg := raw.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	update := &ports.BotUpdate{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Text:      msg.Text,
	}

	if msg.IsCommand() {
		update.Command = msg.Command()
		update.CommandArgs = msg.CommandArguments()
	}

	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		update.Photo = &ports.PhotoInfo{FileID: largest.FileID, FileSize: largest.FileSize}
		if update.Text == "" {
			update.Text = msg.Caption
		}
	}

	if msg.Location != nil {
		update.Location = &ports.LocationInfo{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	}

	return update
}
