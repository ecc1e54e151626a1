package customer

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// aiHistoryDepth is how many turns of an AI conversation are replayed to
// the completion endpoint. Kept in memory only; a restart starts fresh.
const aiHistoryDepth = 10

// Handlers groups the customer-facing flows that are not big enough to
// warrant their own package: main menu, AI assistant mode, FAQ display,
// personal offers and the seller's own listing overview.
type Handlers struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	faq      ports.FAQRepository
	bot      ports.BotClientPort
	ai       ports.Completer

	adminChatID int64
	log         zerolog.Logger

	mu        sync.Mutex
	histories map[int64][]ports.ChatTurn
}

// NewHandlers wires the customer handlers.
func NewHandlers(
	users ports.UserRepository,
	listings ports.ListingRepository,
	faq ports.FAQRepository,
	bot ports.BotClientPort,
	ai ports.Completer,
	adminChatID int64,
	baseLogger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		users:       users,
		listings:    listings,
		faq:         faq,
		bot:         bot,
		ai:          ai,
		adminChatID: adminChatID,
		log:         baseLogger.With().Str("component", "customer").Logger(),
		histories:   make(map[int64][]ports.ChatTurn),
	}
}

// Start handles /start: any in-progress flow is dropped and the main
// menu is shown.
func (h *Handlers) Start(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if user.Status != domain.StatusIdle {
		user.ResetFlow()
		if err := h.users.Update(ctx, user); err != nil {
			return err
		}
	}
	h.dropHistory(user.ChatID)

	firstName := "друже"
	if user.FirstName != nil && *user.FirstName != "" {
		firstName = *user.FirstName
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.Welcome(firstName)).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}

// Cancel handles /cancel from any flow.
func (h *Handlers) Cancel(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if user.Status == domain.StatusIdle {
		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.NothingToCancel).
			Build())
		return err
	}

	user.ResetFlow()
	if err := h.users.Update(ctx, user); err != nil {
		return err
	}
	h.dropHistory(user.ChatID)

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.ActionCancelled).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}

// StartAIChat switches the chat into the AI assistant mode.
func (h *Handlers) StartAIChat(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	user.Status = domain.StatusAIChat
	user.Session = nil
	if err := h.users.Update(ctx, user); err != nil {
		return err
	}
	h.dropHistory(user.ChatID)

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.AIChatIntro).
		WithReplyButtons(messages.AIChatRows()...).
		Build())
	return err
}

// HandleAIChat answers one message while the chat is in ai_chat status.
func (h *Handlers) HandleAIChat(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if strings.TrimSpace(update.Text) == messages.MenuBackToMain {
		user.ResetFlow()
		if err := h.users.Update(ctx, user); err != nil {
			return err
		}
		h.dropHistory(user.ChatID)

		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.AIChatEnded).
			WithReplyButtons(messages.MainMenuRows()...).
			Build())
		return err
	}

	history := h.history(user.ChatID)
	reply := h.ai.Complete(ctx, update.Text, history)
	h.appendHistory(user.ChatID,
		ports.ChatTurn{Role: ports.RoleUser, Content: update.Text},
		ports.ChatTurn{Role: ports.RoleAssistant, Content: reply},
	)

	// Plain parse mode: the completion may contain characters HTML would choke on.
	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(reply).
		WithParseMode("").
		Build())
	return err
}

// ShowFAQ prints the FAQ entries.
func (h *Handlers) ShowFAQ(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	entries, err := h.faq.List(ctx)
	if err != nil {
		return fmt.Errorf("could not list FAQ entries: %w", err)
	}

	if len(entries) == 0 {
		_, err = h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.FAQEmpty).
			Build())
		return err
	}

	var sb strings.Builder
	sb.WriteString(messages.FAQTitle + "\n")
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n%s\n", messages.Esc(entry.Question), messages.Esc(entry.Answer)))
	}

	_, err = h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(sb.String()).
		Build())
	return err
}

// StartPersonalOffer asks the user to describe their offer.
func (h *Handlers) StartPersonalOffer(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	user.Status = domain.StatusAwaitingOffer
	user.Session = nil
	if err := h.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.PersonalOfferPrompt).
		WithReplyButtons(messages.CancelRow()...).
		Build())
	return err
}

// HandlePersonalOffer forwards the offer text to the admin chat.
func (h *Handlers) HandlePersonalOffer(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	text := strings.TrimSpace(update.Text)
	if text == messages.BtnCancel {
		return h.Cancel(ctx, update, user)
	}
	if text == "" {
		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.PersonalOfferPrompt).
			Build())
		return err
	}

	if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(h.adminChatID).
		WithText(messages.PersonalOfferForAdmin(user.DisplayName(), user.ChatID, text)).
		Build()); err != nil {
		return fmt.Errorf("could not forward personal offer: %w", err)
	}

	user.ResetFlow()
	if err := h.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.PersonalOfferSent).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}

// listingStatusLabels are the seller-facing status names.
var listingStatusLabels = map[domain.ListingStatus]string{
	domain.ListingPending:  "⏳ на модерації",
	domain.ListingApproved: "✅ опубліковано",
	domain.ListingRejected: "❌ відхилено",
	domain.ListingSold:     "💰 продано",
	domain.ListingExpired:  "⌛ неактуальне",
}

// ShowMyProducts lists the seller's own listings with their statuses.
func (h *Handlers) ShowMyProducts(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	own, err := h.listings.ListBySeller(ctx, user.ChatID)
	if err != nil {
		return fmt.Errorf("could not list seller's products: %w", err)
	}

	if len(own) == 0 {
		_, err = h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText("У вас поки немає оголошень. Натисніть «"+messages.MenuAddProduct+"», щоб створити перше!").
			Build())
		return err
	}

	var sb strings.Builder
	sb.WriteString("📦 <b>Ваші оголошення</b>\n")
	for _, l := range own {
		label, ok := listingStatusLabels[l.Status]
		if !ok {
			label = string(l.Status)
		}
		sb.WriteString(fmt.Sprintf("\n<b>%s</b> — %s, %s", messages.Esc(l.ProductName), messages.Esc(l.Price), label))
	}

	_, err = h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(sb.String()).
		Build())
	return err
}

func (h *Handlers) history(chatID int64) []ports.ChatTurn {
	h.mu.Lock()
	defer h.mu.Unlock()
	turns := h.histories[chatID]
	out := make([]ports.ChatTurn, len(turns))
	copy(out, turns)
	return out
}

func (h *Handlers) appendHistory(chatID int64, turns ...ports.ChatTurn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	history := append(h.histories[chatID], turns...)
	if len(history) > aiHistoryDepth {
		history = history[len(history)-aiHistoryDepth:]
	}
	h.histories[chatID] = history
}

func (h *Handlers) dropHistory(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.histories, chatID)
}
