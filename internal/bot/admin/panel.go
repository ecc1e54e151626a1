package admin

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/bot/moderation"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const recentUsersLimit = 10

// Panel is the admin surface: statistics, pending moderation replay,
// user management and FAQ management. Every entry point checks the
// caller against the configured admin chat.
type Panel struct {
	users       ports.UserRepository
	listings    ports.ListingRepository
	faq         ports.FAQRepository
	bot         ports.BotClientPort
	moderation  *moderation.Workflow
	adminChatID int64
	log         zerolog.Logger
}

// NewPanel wires the admin panel.
func NewPanel(
	users ports.UserRepository,
	listings ports.ListingRepository,
	faq ports.FAQRepository,
	bot ports.BotClientPort,
	wf *moderation.Workflow,
	adminChatID int64,
	baseLogger *zerolog.Logger,
) *Panel {
	return &Panel{
		users:       users,
		listings:    listings,
		faq:         faq,
		bot:         bot,
		moderation:  wf,
		adminChatID: adminChatID,
		log:         baseLogger.With().Str("component", "admin_panel").Logger(),
	}
}

// IsAdmin reports whether the chat is the configured admin chat.
func (p *Panel) IsAdmin(chatID int64) bool {
	return chatID == p.adminChatID
}

// Command implements the /admin command.
func (p *Panel) Command() string { return "admin" }

// Handle shows the admin menu, or an access-denied notice to anyone else.
func (p *Panel) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if !p.IsAdmin(update.ChatID) {
		p.log.Warn().Int64("chat_id", update.ChatID).Msg("Non-admin tried /admin")
		_, err := p.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText(messages.AdminAccessDenied).
			Build())
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.AdminMenuTitle).
		WithInlineButtons(
			messages.Row(messages.Btn(messages.AdminBtnStats, "admin_stats")),
			messages.Row(messages.Btn(messages.AdminBtnPending, "admin_pending")),
			messages.Row(messages.Btn(messages.AdminBtnUsers, "admin_users")),
			messages.Row(messages.Btn(messages.AdminBtnBlock, "admin_block")),
			messages.Row(messages.Btn(messages.AdminBtnFAQ, "admin_faq")),
		).
		Build())
	return err
}

// MenuHandler handles the admin_* menu callbacks.
type MenuHandler struct{ p *Panel }

func NewMenuHandler(p *Panel) *MenuHandler { return &MenuHandler{p: p} }

func (h *MenuHandler) Prefix() string { return "admin_" }

func (h *MenuHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	p := h.p

	if !p.IsAdmin(update.ChatID) {
		return p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.AdminAccessDenied,
			ShowAlert:       true,
		})
	}

	if err := p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
	}); err != nil {
		p.log.Warn().Err(err).Msg("Failed to answer admin callback")
	}

	switch *update.CallbackData {
	case "admin_stats":
		return p.showStats(ctx)
	case "admin_pending":
		return p.replayPending(ctx)
	case "admin_users":
		return p.showUsers(ctx)
	case "admin_block":
		return p.askBlockInput(ctx, user)
	case "admin_faq":
		return p.showFAQMenu(ctx)
	case "admin_faq_add":
		return p.askFAQQuestion(ctx, user)
	case "admin_faq_delete":
		return p.askFAQDeleteID(ctx, user)
	case "admin_faq_list":
		return p.showFAQList(ctx)
	default:
		return p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.UnknownAction,
		})
	}
}

func (p *Panel) showStats(ctx context.Context) error {
	userCount, err := p.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("could not count users: %w", err)
	}

	var counts [3]int64
	for i, status := range []domain.ListingStatus{domain.ListingPending, domain.ListingApproved, domain.ListingSold} {
		n, err := p.listings.CountByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("could not count %s listings: %w", status, err)
		}
		counts[i] = n
	}

	_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.AdminStats(int(userCount), int(counts[0]), int(counts[1]), int(counts[2]))).
		Build())
	return err
}

// replayPending re-posts review cards for everything still waiting, so a
// card lost in the admin chat history can be acted on again.
func (p *Panel) replayPending(ctx context.Context) error {
	pending, err := p.listings.ListByStatus(ctx, domain.ListingPending)
	if err != nil {
		return fmt.Errorf("could not list pending listings: %w", err)
	}

	if len(pending) == 0 {
		_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.AdminNoPending).
			Build())
		return err
	}

	for _, listing := range pending {
		if err := p.moderation.ResendReviewCard(ctx, listing); err != nil {
			p.log.Error().Err(err).Int64("listing_id", listing.ID).Msg("Failed to resend review card")
		}
	}
	return nil
}

func (p *Panel) showUsers(ctx context.Context) error {
	recent, err := p.users.ListRecent(ctx, recentUsersLimit)
	if err != nil {
		return fmt.Errorf("could not list recent users: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Останні активні користувачі</b>\n")
	var rows [][]ports.Button
	for _, u := range recent {
		mark := ""
		if u.IsBlocked {
			mark = " 🚫"
		}
		sb.WriteString(fmt.Sprintf("\n%s (<code>%d</code>)%s", messages.Esc(u.DisplayName()), u.ChatID, mark))

		if u.IsBlocked {
			rows = append(rows, messages.Row(messages.Btn(
				messages.BtnUnblockUser+" "+u.DisplayName(),
				fmt.Sprintf("user_unblock_%d", u.ChatID),
			)))
		} else {
			rows = append(rows, messages.Row(messages.Btn(
				messages.BtnBlockUser+" "+u.DisplayName(),
				fmt.Sprintf("user_block_%d", u.ChatID),
			)))
		}
	}

	builder := messages.NewBuilder(p.adminChatID).WithText(sb.String())
	if len(rows) > 0 {
		builder = builder.WithInlineButtons(rows...)
	}
	_, err = p.bot.SendMessage(ctx, builder.Build())
	return err
}

func (p *Panel) askBlockInput(ctx context.Context, admin *domain.User) error {
	admin.Status = domain.StatusAwaitingBlockInput
	admin.Session = nil
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.AdminBlockPrompt).
		Build())
	return err
}

func (p *Panel) showFAQMenu(ctx context.Context) error {
	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.AdminBtnFAQ).
		WithInlineButtons(
			messages.Row(messages.Btn(messages.AdminBtnFAQAdd, "admin_faq_add")),
			messages.Row(messages.Btn(messages.AdminBtnFAQDelete, "admin_faq_delete")),
			messages.Row(messages.Btn(messages.AdminBtnFAQList, "admin_faq_list")),
		).
		Build())
	return err
}

func (p *Panel) askFAQQuestion(ctx context.Context, admin *domain.User) error {
	admin.Status = domain.StatusAwaitingFAQQ
	admin.Session = nil
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.FAQAskQuestion).
		Build())
	return err
}

func (p *Panel) askFAQDeleteID(ctx context.Context, admin *domain.User) error {
	admin.Status = domain.StatusAwaitingFAQDelete
	admin.Session = nil
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.FAQAskDeleteID).
		Build())
	return err
}

func (p *Panel) showFAQList(ctx context.Context) error {
	entries, err := p.faq.List(ctx)
	if err != nil {
		return fmt.Errorf("could not list FAQ entries: %w", err)
	}

	if len(entries) == 0 {
		_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.FAQEmpty).
			Build())
		return err
	}

	var sb strings.Builder
	sb.WriteString(messages.FAQTitle + "\n")
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("\n<b>%d. %s</b>\n%s\n",
			entry.ID, messages.Esc(entry.Question), messages.Esc(entry.Answer)))
	}

	_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(sb.String()).
		Build())
	return err
}

// BlockHandler handles user_block_<chatID> and user_unblock_<chatID>
// callbacks from the users list.
type BlockHandler struct {
	p     *Panel
	block bool
}

func NewBlockHandler(p *Panel) *BlockHandler   { return &BlockHandler{p: p, block: true} }
func NewUnblockHandler(p *Panel) *BlockHandler { return &BlockHandler{p: p, block: false} }

func (h *BlockHandler) Prefix() string {
	if h.block {
		return "user_block_"
	}
	return "user_unblock_"
}

func (h *BlockHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	p := h.p

	if !p.IsAdmin(update.ChatID) {
		return p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.AdminAccessDenied,
			ShowAlert:       true,
		})
	}

	chatID, err := strconv.ParseInt(strings.TrimPrefix(*update.CallbackData, h.Prefix()), 10, 64)
	if err != nil || chatID == 0 {
		return p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.UnknownAction,
		})
	}

	if err := p.setBlocked(ctx, chatID, h.block); err != nil {
		return err
	}
	return p.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            "Готово",
	})
}

// setBlocked flips the block flag and reports the result to the admin.
func (p *Panel) setBlocked(ctx context.Context, chatID int64, blocked bool) error {
	target, err := p.users.GetByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if target == nil {
		_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.AdminUserNotFound).
			Build())
		return err
	}

	if err := p.users.SetBlocked(ctx, chatID, blocked, p.adminChatID); err != nil {
		return fmt.Errorf("could not set block flag for %d: %w", chatID, err)
	}

	text := messages.AdminUserUnblocked(target.DisplayName())
	if blocked {
		text = messages.AdminUserBlocked(target.DisplayName())
	}
	p.log.Info().Int64("chat_id", chatID).Bool("blocked", blocked).Msg("User block flag changed")

	_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).WithText(text).Build())
	return err
}
