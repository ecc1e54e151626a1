package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ListingStatus
		to   ListingStatus
		want bool
	}{
		{"pending to approved", ListingPending, ListingApproved, true},
		{"pending to rejected", ListingPending, ListingRejected, true},
		{"approved to sold", ListingApproved, ListingSold, true},
		{"approved to expired", ListingApproved, ListingExpired, true},
		{"pending to sold skips moderation", ListingPending, ListingSold, false},
		{"approve twice", ListingApproved, ListingApproved, false},
		{"rejected is terminal", ListingRejected, ListingApproved, false},
		{"sold is terminal", ListingSold, ListingApproved, false},
		{"sold to expired", ListingSold, ListingExpired, false},
		{"expired is terminal", ListingExpired, ListingApproved, false},
		{"approved back to pending", ListingApproved, ListingPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestUserResetFlow(t *testing.T) {
	u := &User{
		Status:  StatusAddingProduct,
		Session: &Session{Step: 3, Draft: ListingDraft{Name: "iPhone 13"}},
	}
	u.ResetFlow()
	require.Equal(t, StatusIdle, u.Status)
	require.Nil(t, u.Session)
}

func TestUserInWizard(t *testing.T) {
	u := &User{Status: StatusAddingProduct}
	require.True(t, u.InWizard())
	u.Status = StatusConfirmProduct
	require.True(t, u.InWizard())
	u.Status = StatusAIChat
	require.False(t, u.InWizard())
}
