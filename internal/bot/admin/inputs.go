package admin

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// HandleFAQQuestion stores the question text and asks for the answer.
func (p *Panel) HandleFAQQuestion(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	question := strings.TrimSpace(update.Text)
	if question == "" {
		_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.FAQAskQuestion).
			Build())
		return err
	}

	admin.Status = domain.StatusAwaitingFAQA
	admin.Session = &domain.Session{FAQQuestion: question}
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.FAQAskAnswer).
		Build())
	return err
}

// HandleFAQAnswer saves the question/answer pair and ends the flow.
func (p *Panel) HandleFAQAnswer(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	answer := strings.TrimSpace(update.Text)
	if answer == "" {
		_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.FAQAskAnswer).
			Build())
		return err
	}

	if admin.Session == nil || admin.Session.FAQQuestion == "" {
		admin.ResetFlow()
		if err := p.users.Update(ctx, admin); err != nil {
			return err
		}
		_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.SomethingWentWrong).
			Build())
		return err
	}

	if _, err := p.faq.Create(ctx, admin.Session.FAQQuestion, answer); err != nil {
		return fmt.Errorf("could not save FAQ entry: %w", err)
	}

	admin.ResetFlow()
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
		WithText(messages.FAQSaved).
		Build())
	return err
}

// HandleFAQDelete removes the FAQ entry whose id the admin sent.
func (p *Panel) HandleFAQDelete(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	id, err := strconv.ParseInt(strings.TrimSpace(update.Text), 10, 64)
	if err != nil || id <= 0 {
		_, err := p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.FAQInvalidID).
			Build())
		return err
	}

	deleted, err := p.faq.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete FAQ entry %d: %w", id, err)
	}

	admin.ResetFlow()
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	text := messages.FAQDeleteNotFound
	if deleted {
		text = messages.FAQDeleted
	}
	_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).WithText(text).Build())
	return err
}

// HandleBlockInput resolves the admin's chat-id-or-username input and
// toggles the target's block flag.
func (p *Panel) HandleBlockInput(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	input := strings.TrimSpace(update.Text)

	var target *domain.User
	var err error
	if chatID, parseErr := strconv.ParseInt(input, 10, 64); parseErr == nil {
		target, err = p.users.GetByChatID(ctx, chatID)
	} else {
		target, err = p.users.GetByUsername(ctx, strings.TrimPrefix(input, "@"))
	}
	if err != nil {
		return err
	}

	admin.ResetFlow()
	if err := p.users.Update(ctx, admin); err != nil {
		return err
	}

	if target == nil {
		_, err = p.bot.SendMessage(ctx, messages.NewBuilder(p.adminChatID).
			WithText(messages.AdminUserNotFound).
			Build())
		return err
	}

	return p.setBlocked(ctx, target.ChatID, !target.IsBlocked)
}
