// Package pipeline orchestrates one inbound message end to end: phrase
// extraction, identity resolution, idempotency check, persistence, and
// reply composition.
//
// Processing is strictly per-message with terminal outcomes only — no
// retries, no partial state. The transport layer delivers messages
// serially and sends whatever reply the pipeline hands back.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hhgops/ackbot/internal/chat"
	"github.com/hhgops/ackbot/internal/identity"
	"github.com/hhgops/ackbot/internal/phrase"
	"github.com/hhgops/ackbot/internal/store"
)

// Outcome is the terminal state of processing one message.
type Outcome int

const (
	// OutcomeNoMatch — text does not fit the acknowledgment template.
	// Silent: no reply, no write.
	OutcomeNoMatch Outcome = iota
	// OutcomeChatNotAllowed — message arrived outside the configured
	// chat scope. Silent.
	OutcomeChatNotAllowed
	// OutcomeNameNotFound — identity resolution failed; the reply
	// carries suggestions or contact guidance.
	OutcomeNameNotFound
	// OutcomeAlreadyAcknowledged — duplicate for this employee and
	// version; confirmed, not re-recorded.
	OutcomeAlreadyAcknowledged
	// OutcomeRecorded — the acknowledgment was persisted.
	OutcomeRecorded
	// OutcomeInternalError — unexpected failure; logged server-side,
	// generic reply to chat.
	OutcomeInternalError
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeChatNotAllowed:
		return "chat_not_allowed"
	case OutcomeNameNotFound:
		return "name_not_found"
	case OutcomeAlreadyAcknowledged:
		return "already_acknowledged"
	case OutcomeRecorded:
		return "recorded"
	case OutcomeInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Result is what the transport acts on. An empty Reply means stay silent.
type Result struct {
	Outcome Outcome
	Reply   string
}

// Ledger is the acknowledgment persistence surface the pipeline depends
// on. *store.Store implements it.
type Ledger interface {
	HasAcknowledgment(ctx context.Context, employeeID int64, version string) (bool, error)
	RecordAcknowledgment(ctx context.Context, p store.RecordAckParams) (int64, error)
}

// Pipeline wires the extractor, resolver and ledger for one deployment.
type Pipeline struct {
	extractor     *phrase.Extractor
	resolver      identity.Resolver
	ledger        Ledger
	allowedChatID int64
	log           *zap.Logger
	now           func() time.Time
}

// New creates a Pipeline. allowedChatID zero means unrestricted.
func New(extractor *phrase.Extractor, resolver identity.Resolver, ledger Ledger, allowedChatID int64, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		extractor:     extractor,
		resolver:      resolver,
		ledger:        ledger,
		allowedChatID: allowedChatID,
		log:           log,
		now:           time.Now,
	}
}

// Process runs one message through the pipeline and returns its terminal
// outcome plus the reply to send (empty for the silent outcomes).
func (p *Pipeline) Process(ctx context.Context, msg chat.Message) Result {
	if msg.Text == "" {
		return Result{Outcome: OutcomeNoMatch}
	}
	if p.allowedChatID != 0 && msg.ChatID != p.allowedChatID {
		return Result{Outcome: OutcomeChatNotAllowed}
	}

	ack, ok := p.extractor.Extract(msg.Text)
	if !ok {
		return Result{Outcome: OutcomeNoMatch}
	}

	emp, err := p.resolver.Resolve(ctx, ack.FullName, msg.Sender)
	if err != nil {
		var nf *identity.NotFoundError
		if errors.As(err, &nf) {
			p.log.Info("name not found",
				zap.String("claimed_name", nf.ClaimedName),
				zap.Int("candidates", len(nf.Candidates)),
				zap.Int64("chat_id", msg.ChatID))
			return Result{
				Outcome: OutcomeNameNotFound,
				Reply:   nameNotFoundReply(nf, ack.Version, p.extractor.Organization()),
			}
		}
		p.log.Error("identity resolution failed",
			zap.String("claimed_name", ack.FullName),
			zap.Int64("sender_id", msg.Sender.ID),
			zap.Error(err))
		return Result{Outcome: OutcomeInternalError, Reply: internalErrorReply()}
	}

	done, err := p.ledger.HasAcknowledgment(ctx, emp.ID, ack.Version)
	if err != nil {
		p.log.Error("idempotency check failed",
			zap.Int64("employee_id", emp.ID),
			zap.String("version", ack.Version),
			zap.Error(err))
		return Result{Outcome: OutcomeInternalError, Reply: internalErrorReply()}
	}
	if done {
		return Result{
			Outcome: OutcomeAlreadyAcknowledged,
			Reply:   alreadyAcknowledgedReply(emp.FullName, ack.Version),
		}
	}

	raw, err := msg.RawEnvelope()
	if err != nil {
		p.log.Error("encoding audit envelope", zap.Error(err))
		return Result{Outcome: OutcomeInternalError, Reply: internalErrorReply()}
	}

	_, err = p.ledger.RecordAcknowledgment(ctx, store.RecordAckParams{
		EmployeeID:  emp.ID,
		Version:     ack.Version,
		Text:        msg.Text,
		ChatID:      msg.ChatID,
		MessageID:   msg.MessageID,
		MessageDate: msg.Date,
		Raw:         raw,
	})
	if errors.Is(err, store.ErrDuplicateAck) {
		// Lost the race past the pre-check; same answer as a duplicate.
		return Result{
			Outcome: OutcomeAlreadyAcknowledged,
			Reply:   alreadyAcknowledgedReply(emp.FullName, ack.Version),
		}
	}
	if err != nil {
		p.log.Error("recording acknowledgment failed",
			zap.Int64("employee_id", emp.ID),
			zap.String("version", ack.Version),
			zap.Error(err))
		return Result{Outcome: OutcomeInternalError, Reply: internalErrorReply()}
	}

	p.log.Info("acknowledgment recorded",
		zap.String("full_name", emp.FullName),
		zap.String("channel_username", emp.ChannelUsername),
		zap.String("version", ack.Version))

	return Result{
		Outcome: OutcomeRecorded,
		Reply:   recordedReply(emp.FullName, ack.Version, p.extractor.Organization(), p.now().UTC()),
	}
}
