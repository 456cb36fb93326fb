package store

import (
	"context"
	"fmt"
	"time"
)

// Acknowledgment is one immutable ledger entry: an identified employee
// accepted a specific handbook version at a specific time. Never updated
// or deleted.
type Acknowledgment struct {
	ID              int64  `json:"id"`
	EmployeeID      int64  `json:"employee_id"`
	HandbookVersion string `json:"handbook_version"`
	AckText         string `json:"ack_text"`
	AcknowledgedAt  string `json:"acknowledged_at"`
	ChannelID       int64  `json:"channel_id"`
	MessageID       int64  `json:"channel_message_id"`
	MessageDate     string `json:"channel_message_date"`
	RawEvent        []byte `json:"raw_event_json"`
}

// RecordAckParams holds the input for recording an acknowledgment.
// MessageDate is the transport's epoch-seconds timestamp; the ledger
// converts it to a UTC instant. Raw is the opaque audit envelope.
type RecordAckParams struct {
	EmployeeID  int64
	Version     string
	Text        string
	ChatID      int64
	MessageID   int
	MessageDate int64
	Raw         []byte
}

// HasAcknowledgment reports whether the employee already acknowledged the
// given handbook version. Best-effort pre-check; the uniqueness constraint
// is the authority (see RecordAcknowledgment).
func (s *Store) HasAcknowledgment(ctx context.Context, employeeID int64, version string) (bool, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT COUNT(1) FROM acknowledgments
		WHERE employee_id = ? AND handbook_version = ?
	`), employeeID, version)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("store: check acknowledgment: %w", err)
	}
	return n > 0, nil
}

// RecordAcknowledgment inserts one ledger entry with a server-assigned UTC
// timestamp and returns its id. Two racers past the HasAcknowledgment
// pre-check are settled here: the loser's constraint violation comes back
// as ErrDuplicateAck.
func (s *Store) RecordAcknowledgment(ctx context.Context, p RecordAckParams) (int64, error) {
	acknowledgedAt := time.Now().UTC().Format(time.RFC3339)
	messageDate := time.Unix(p.MessageDate, 0).UTC().Format(time.RFC3339)

	row := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO acknowledgments (
			employee_id,
			handbook_version,
			ack_text,
			acknowledged_at,
			channel_id,
			channel_message_id,
			channel_message_date,
			raw_event_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), p.EmployeeID, p.Version, p.Text, acknowledgedAt, p.ChatID, p.MessageID, messageDate, string(p.Raw))

	var id int64
	if err := row.Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateAck
		}
		return 0, fmt.Errorf("store: record acknowledgment: %w", err)
	}
	return id, nil
}

// AcknowledgmentsByEmployee returns an employee's ledger entries, newest
// first.
func (s *Store) AcknowledgmentsByEmployee(ctx context.Context, employeeID int64) ([]Acknowledgment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, employee_id, handbook_version, ack_text, acknowledged_at,
		       channel_id, channel_message_id, channel_message_date, raw_event_json
		FROM acknowledgments
		WHERE employee_id = ?
		ORDER BY acknowledged_at DESC, id DESC
	`), employeeID)
	if err != nil {
		return nil, fmt.Errorf("store: acknowledgments by employee: %w", err)
	}
	defer rows.Close()

	var result []Acknowledgment
	for rows.Next() {
		var a Acknowledgment
		var raw string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.HandbookVersion, &a.AckText, &a.AcknowledgedAt,
			&a.ChannelID, &a.MessageID, &a.MessageDate, &raw); err != nil {
			return nil, fmt.Errorf("store: scan acknowledgment: %w", err)
		}
		a.RawEvent = []byte(raw)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: acknowledgments by employee: %w", err)
	}
	return result, nil
}
