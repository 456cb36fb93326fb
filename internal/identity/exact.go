package identity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hhgops/ackbot/internal/chat"
	"github.com/hhgops/ackbot/internal/store"
)

// ExactMatchResolver implements the exact-match-with-suggestions policy.
//
// The channel account must present the exact registered name before any
// binding happens — that is what keeps impersonation out. Fuzzy matching
// only shapes the corrective prompt; it never weakens the match itself.
type ExactMatchResolver struct {
	roster  Roster
	scoring Scoring
}

// NewExactMatchResolver creates the resolver with the given scoring knobs.
func NewExactMatchResolver(roster Roster, scoring Scoring) *ExactMatchResolver {
	return &ExactMatchResolver{roster: roster, scoring: scoring}
}

// Resolve looks up the claimed name case-insensitively. On a hit it binds
// the sender's channel identity onto the record (overwriting any prior
// binding) and returns the employee. On a miss it returns a NotFoundError
// carrying the ranked candidates.
func (r *ExactMatchResolver) Resolve(ctx context.Context, claimedName string, sender chat.Sender) (*store.Employee, error) {
	emp, err := r.roster.FindEmployeeByName(ctx, claimedName)
	if err != nil {
		return nil, fmt.Errorf("identity: exact lookup: %w", err)
	}

	if emp == nil {
		pool, err := r.roster.ListNamedEmployees(ctx)
		if err != nil {
			return nil, fmt.Errorf("identity: listing roster for suggestions: %w", err)
		}
		return nil, &NotFoundError{
			ClaimedName: claimedName,
			Candidates:  Rank(claimedName, pool, r.scoring),
		}
	}

	channelUserID := strconv.FormatInt(sender.ID, 10)
	if err := r.roster.BindChannelIdentity(ctx, emp.ID, channelUserID, sender.Username); err != nil {
		return nil, fmt.Errorf("identity: binding channel identity: %w", err)
	}
	emp.ChannelUserID = channelUserID
	emp.ChannelUsername = sender.Username
	return emp, nil
}
