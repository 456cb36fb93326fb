// Package identity maps a claimed name and channel identity onto an
// employee record.
//
// Two mutually exclusive resolution policies exist, selected once at
// startup: exact-match-with-suggestions (the claimed name must equal a
// registered roster name; typos get ranked suggestions) and
// find-or-create-by-channel-identity (frictionless onboarding keyed by the
// sender's stable channel user id).
package identity

import (
	"context"
	"fmt"

	"github.com/hhgops/ackbot/internal/chat"
	"github.com/hhgops/ackbot/internal/store"
)

// Roster is the persistence surface resolvers depend on. *store.Store
// implements it; tests may substitute their own.
type Roster interface {
	FindEmployeeByName(ctx context.Context, fullName string) (*store.Employee, error)
	FindEmployeeByChannelUserID(ctx context.Context, channelUserID string) (*store.Employee, error)
	CreateEmployee(ctx context.Context, p store.CreateEmployeeParams) (*store.Employee, error)
	BindChannelIdentity(ctx context.Context, employeeID int64, channelUserID, channelUsername string) error
	RefreshEmployeeIdentity(ctx context.Context, employeeID int64, fullName, channelUsername string) error
	ListNamedEmployees(ctx context.Context) ([]store.Employee, error)
}

// Resolver resolves the sender of an acknowledgment to an employee record.
type Resolver interface {
	Resolve(ctx context.Context, claimedName string, sender chat.Sender) (*store.Employee, error)
}

// NotFoundError reports that a claimed name matched no employee. Candidates
// holds the ranked near misses (possibly empty) for composing a corrective
// prompt. Recoverable: the sender resends with the exact registered name.
type NotFoundError struct {
	ClaimedName string
	Candidates  []Candidate
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("identity: no employee named %q (%d candidates)", e.ClaimedName, len(e.Candidates))
}
