package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus is the closed set of conversational modes a chat can be in.
// Exactly one value is active at a time; flow-specific detail (wizard
// step index, relay target) lives in the Session blob, not in the status.
type UserStatus string

const (
	StatusIdle            UserStatus = "idle"
	StatusAddingProduct   UserStatus = "adding_product"
	StatusConfirmProduct  UserStatus = "confirm_product"
	StatusAIChat          UserStatus = "ai_chat"
	StatusWaitingOperator UserStatus = "waiting_human_operator"
	// StatusChattingWithUser marks the admin side of a human-handoff
	// conversation; Session.TargetChatID names the other chat.
	StatusChattingWithUser   UserStatus = "chatting_with_user"
	StatusAwaitingOffer      UserStatus = "awaiting_personal_offer_details"
	StatusAwaitingFAQQ       UserStatus = "awaiting_faq_question"
	StatusAwaitingFAQA       UserStatus = "awaiting_faq_answer"
	StatusAwaitingFAQDelete  UserStatus = "awaiting_faq_delete_id"
	StatusAwaitingBlockInput UserStatus = "awaiting_user_for_block_unblock"
)

// GeoPoint is an optional listing location.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingDraft accumulates wizard input before a Listing is created.
type ListingDraft struct {
	Name        string    `json:"name,omitempty"`
	Price       string    `json:"price,omitempty"`
	Description string    `json:"description,omitempty"`
	Photos      []string  `json:"photos,omitempty"` // Telegram file ids, first is the cover
	Location    *GeoPoint `json:"location,omitempty"`
}

// Session is the per-chat ephemeral state, persisted as a JSONB column so
// an in-progress flow survives a process restart.
type Session struct {
	Step         int          `json:"step"`
	Draft        ListingDraft `json:"draft"`
	TargetChatID int64        `json:"target_chat_id,omitempty"`
	FAQQuestion  string       `json:"faq_question,omitempty"`
}

// User represents one chat participant.
type User struct {
	ID        uuid.UUID
	ChatID    int64
	Username  *string
	FirstName *string
	LastName  *string

	IsBlocked bool
	BlockedBy *int64
	BlockedAt *time.Time

	Status  UserStatus
	Session *Session // nil when no flow is active

	JoinedAt     time.Time
	LastActivity time.Time
}

// DisplayName returns the best human-readable name we have for the user.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	if u.FirstName != nil && *u.FirstName != "" {
		name := *u.FirstName
		if u.LastName != nil && *u.LastName != "" {
			name += " " + *u.LastName
		}
		return name
	}
	return "—"
}

// InWizard reports whether the chat is somewhere in the add-product flow.
func (u *User) InWizard() bool {
	return u.Status == StatusAddingProduct || u.Status == StatusConfirmProduct
}

// ResetFlow drops any in-progress flow state and returns the user to idle.
func (u *User) ResetFlow() {
	u.Status = StatusIdle
	u.Session = nil
}
