package moderation

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"strconv"
	"strings"
)

// parseListingID extracts the listing id from callback data like
// "approve_42".
func parseListingID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ApproveHandler handles approve_<id> callbacks from the review card.
type ApproveHandler struct{ wf *Workflow }

func NewApproveHandler(wf *Workflow) *ApproveHandler { return &ApproveHandler{wf: wf} }

func (h *ApproveHandler) Prefix() string { return "approve_" }

func (h *ApproveHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if !h.wf.isAdmin(update) {
		return h.wf.denyAccess(ctx, update)
	}
	id, ok := parseListingID(*update.CallbackData, h.Prefix())
	if !ok {
		return h.wf.answer(ctx, update, messages.UnknownAction)
	}
	return h.wf.Approve(ctx, update, id)
}

// RejectHandler handles reject_<id> callbacks from the review card.
type RejectHandler struct{ wf *Workflow }

func NewRejectHandler(wf *Workflow) *RejectHandler { return &RejectHandler{wf: wf} }

func (h *RejectHandler) Prefix() string { return "reject_" }

func (h *RejectHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if !h.wf.isAdmin(update) {
		return h.wf.denyAccess(ctx, update)
	}
	id, ok := parseListingID(*update.CallbackData, h.Prefix())
	if !ok {
		return h.wf.answer(ctx, update, messages.UnknownAction)
	}
	return h.wf.Reject(ctx, update, id)
}

// SoldHandler handles sold_<id> callbacks from the approved card.
type SoldHandler struct{ wf *Workflow }

func NewSoldHandler(wf *Workflow) *SoldHandler { return &SoldHandler{wf: wf} }

func (h *SoldHandler) Prefix() string { return "sold_" }

func (h *SoldHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if !h.wf.isAdmin(update) {
		return h.wf.denyAccess(ctx, update)
	}
	id, ok := parseListingID(*update.CallbackData, h.Prefix())
	if !ok {
		return h.wf.answer(ctx, update, messages.UnknownAction)
	}
	return h.wf.MarkSold(ctx, update, id)
}
