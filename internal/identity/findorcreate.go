package identity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hhgops/ackbot/internal/chat"
	"github.com/hhgops/ackbot/internal/store"
)

// FindOrCreateResolver implements the find-or-create-by-channel-identity
// policy: frictionless onboarding with no pre-provisioned roster. Anyone
// can claim any name on first contact — the trade is explicit.
type FindOrCreateResolver struct {
	roster Roster
}

// NewFindOrCreateResolver creates the resolver.
func NewFindOrCreateResolver(roster Roster) *FindOrCreateResolver {
	return &FindOrCreateResolver{roster: roster}
}

// Resolve looks up the employee by the sender's stable channel user id.
// A known sender gets its display fields refreshed (the stored name is
// kept when the claimed name is empty); an unknown sender is provisioned
// with status pending. Resolve never returns NotFoundError.
func (r *FindOrCreateResolver) Resolve(ctx context.Context, claimedName string, sender chat.Sender) (*store.Employee, error) {
	channelUserID := strconv.FormatInt(sender.ID, 10)

	emp, err := r.roster.FindEmployeeByChannelUserID(ctx, channelUserID)
	if err != nil {
		return nil, fmt.Errorf("identity: channel lookup: %w", err)
	}

	if emp != nil {
		if err := r.roster.RefreshEmployeeIdentity(ctx, emp.ID, claimedName, sender.Username); err != nil {
			return nil, fmt.Errorf("identity: refreshing identity: %w", err)
		}
		if claimedName != "" {
			emp.FullName = claimedName
		}
		emp.ChannelUsername = sender.Username
		return emp, nil
	}

	created, err := r.roster.CreateEmployee(ctx, store.CreateEmployeeParams{
		FullName:        claimedName,
		ChannelUserID:   channelUserID,
		ChannelUsername: sender.Username,
		Status:          store.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("identity: provisioning employee: %w", err)
	}
	return created, nil
}
