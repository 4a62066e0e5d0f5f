package repository

import (
	"context"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

const complaintColumns = `id, type, subject, message, severity, student_id, student_name,
	is_anonymous, bus_ref, bus_name, bus_number, driver_id, driver_name, status,
	admin_response, read_by_admin, created_at`

func (s *Store) CreateComplaint(ctx context.Context, c *model.Complaint) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO complaints (id, type, subject, message, severity, student_id, student_name,
			is_anonymous, bus_ref, bus_name, bus_number, driver_id, driver_name, status,
			admin_response, read_by_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, c.ID, c.Type, c.Subject, c.Message, c.Severity, c.StudentID, c.StudentName,
		c.IsAnonymous, c.BusRef, c.BusName, c.BusNumber, c.DriverID, c.DriverName, c.Status,
		c.AdminResponse, c.ReadByAdmin, c.CreatedAt)
	return mapError(err)
}

func (s *Store) GetComplaint(ctx context.Context, id string) (model.Complaint, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
	if err != nil {
		return model.Complaint{}, mapError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Complaint{}, mapError(err)
		}
		return model.Complaint{}, ErrNotFound
	}
	return scanComplaint(rows)
}

func (s *Store) ListComplaints(ctx context.Context) ([]model.Complaint, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := []model.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, mapError(rows.Err())
}

// UpdateComplaintStatus applies management's status change and marks the
// complaint as read in the same write.
func (s *Store) UpdateComplaintStatus(ctx context.Context, id, status, adminResponse string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE complaints SET status = $2, admin_response = $3, read_by_admin = true WHERE id = $1
	`, id, status, adminResponse)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComplaint(row rowScanner) (model.Complaint, error) {
	var c model.Complaint
	err := row.Scan(&c.ID, &c.Type, &c.Subject, &c.Message, &c.Severity, &c.StudentID, &c.StudentName,
		&c.IsAnonymous, &c.BusRef, &c.BusName, &c.BusNumber, &c.DriverID, &c.DriverName, &c.Status,
		&c.AdminResponse, &c.ReadByAdmin, &c.CreatedAt)
	return c, mapError(err)
}
