package store

import (
	"context"
	"fmt"
)

// ReportEntry is one acknowledged employee in a version report.
type ReportEntry struct {
	EmployeeID     int64  `json:"employee_id"`
	FullName       string `json:"full_name"`
	AcknowledgedAt string `json:"acknowledged_at"`
}

// VersionReport is the compliance breakdown for one handbook version:
// who has acknowledged it, and which named roster members have not.
type VersionReport struct {
	Version      string        `json:"version"`
	Acknowledged []ReportEntry `json:"acknowledged"`
	Outstanding  []string      `json:"outstanding"`
}

// ReportForVersion builds the compliance report for a handbook version.
// Only employees with a non-empty name count toward the outstanding list;
// unnamed records are a data-quality concern, not a compliance gap.
func (s *Store) ReportForVersion(ctx context.Context, version string) (*VersionReport, error) {
	report := &VersionReport{Version: version}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT e.id, e.full_name, a.acknowledged_at
		FROM acknowledgments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.handbook_version = ?
		ORDER BY a.acknowledged_at, e.full_name
	`), version)
	if err != nil {
		return nil, fmt.Errorf("store: version report: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry ReportEntry
		if err := rows.Scan(&entry.EmployeeID, &entry.FullName, &entry.AcknowledgedAt); err != nil {
			return nil, fmt.Errorf("store: scan report entry: %w", err)
		}
		report.Acknowledged = append(report.Acknowledged, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: version report: %w", err)
	}

	outstanding, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT full_name
		FROM employees
		WHERE full_name <> ''
		  AND id NOT IN (
			SELECT employee_id FROM acknowledgments WHERE handbook_version = ?
		  )
		ORDER BY full_name
	`), version)
	if err != nil {
		return nil, fmt.Errorf("store: outstanding employees: %w", err)
	}
	defer outstanding.Close()

	for outstanding.Next() {
		var name string
		if err := outstanding.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan outstanding employee: %w", err)
		}
		report.Outstanding = append(report.Outstanding, name)
	}
	if err := outstanding.Err(); err != nil {
		return nil, fmt.Errorf("store: outstanding employees: %w", err)
	}

	return report, nil
}
