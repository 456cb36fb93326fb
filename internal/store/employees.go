package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Employee is one roster identity record. ChannelUserID is the stable id
// assigned by the messaging transport; it may be empty until the employee's
// first acknowledgment binds it. ChannelUsername is display-only and
// mutable. Timestamps are RFC3339 UTC strings.
type Employee struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	ChannelUserID   string `json:"channel_user_id,omitempty"`
	ChannelUsername string `json:"channel_username,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// CreateEmployeeParams holds the input for provisioning a new employee.
type CreateEmployeeParams struct {
	FullName        string
	ChannelUserID   string
	ChannelUsername string
	Status          string
}

const employeeColumns = `id, full_name, COALESCE(channel_user_id, ''), COALESCE(channel_username, ''), status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.FullName, &e.ChannelUserID, &e.ChannelUsername, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// FindEmployeeByName looks up an employee by exact full name,
// case-insensitively. Returns (nil, nil) when no employee matches.
func (s *Store) FindEmployeeByName(ctx context.Context, fullName string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(full_name) = LOWER(?)`,
	), fullName)

	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find employee by name: %w", err)
	}
	return &e, nil
}

// FindEmployeeByChannelUserID looks up an employee by the stable channel
// user id. Returns (nil, nil) when no employee matches.
func (s *Store) FindEmployeeByChannelUserID(ctx context.Context, channelUserID string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+employeeColumns+` FROM employees WHERE channel_user_id = ?`,
	), channelUserID)

	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find employee by channel user id: %w", err)
	}
	return &e, nil
}

// CreateEmployee provisions a new employee record and returns it with the
// assigned id and timestamps.
func (s *Store) CreateEmployee(ctx context.Context, p CreateEmployeeParams) (*Employee, error) {
	now := nowUTC()
	status := p.Status
	if status == "" {
		status = StatusActive
	}

	row := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO employees (full_name, channel_user_id, channel_username, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), p.FullName, nullable(p.ChannelUserID), nullable(p.ChannelUsername), status, now, now)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("store: create employee: %w", err)
	}
	return &Employee{
		ID:              id,
		FullName:        p.FullName,
		ChannelUserID:   p.ChannelUserID,
		ChannelUsername: p.ChannelUsername,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// BindChannelIdentity overwrites an employee's channel binding. Called on
// every successful exact-match acknowledgment, so a re-registered channel
// account replaces any prior binding. The bind takes ownership: if another
// employee currently holds the channel user id (two people acknowledging
// from a shared device), that binding is released in the same transaction,
// keeping the uniqueness invariant without rejecting a valid message.
func (s *Store) BindChannelIdentity(ctx context.Context, employeeID int64, channelUserID, channelUsername string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: bind channel identity: %w", err)
	}
	defer tx.Rollback()

	now := nowUTC()
	if channelUserID != "" {
		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE employees
			SET channel_user_id = NULL, updated_at = ?
			WHERE channel_user_id = ? AND id <> ?
		`), now, channelUserID, employeeID)
		if err != nil {
			return fmt.Errorf("store: releasing prior channel binding: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		UPDATE employees
		SET channel_user_id = ?, channel_username = ?, updated_at = ?
		WHERE id = ?
	`), nullable(channelUserID), nullable(channelUsername), now, employeeID)
	if err != nil {
		return fmt.Errorf("store: bind channel identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: bind channel identity: %w", err)
	}
	return nil
}

// RefreshEmployeeIdentity updates the mutable display fields of an
// employee found by channel identity. An empty fullName keeps the stored
// name; the username is always replaced.
func (s *Store) RefreshEmployeeIdentity(ctx context.Context, employeeID int64, fullName, channelUsername string) error {
	var err error
	if fullName != "" {
		_, err = s.db.ExecContext(ctx, s.rebind(`
			UPDATE employees
			SET full_name = ?, channel_username = ?, updated_at = ?
			WHERE id = ?
		`), fullName, nullable(channelUsername), nowUTC(), employeeID)
	} else {
		_, err = s.db.ExecContext(ctx, s.rebind(`
			UPDATE employees
			SET channel_username = ?, updated_at = ?
			WHERE id = ?
		`), nullable(channelUsername), nowUTC(), employeeID)
	}
	if err != nil {
		return fmt.Errorf("store: refresh employee identity: %w", err)
	}
	return nil
}

// ListNamedEmployees returns every employee with a non-empty full name,
// the candidate pool for similarity ranking and version reports.
func (s *Store) ListNamedEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT `+employeeColumns+` FROM employees WHERE full_name <> '' ORDER BY full_name`,
	))
	if err != nil {
		return nil, fmt.Errorf("store: list named employees: %w", err)
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan employee: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list named employees: %w", err)
	}
	return result, nil
}
