package repository

import (
	"context"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

const feedbackColumns = `id, subject, message, student_id, student_name, is_anonymous, bus_ref,
	bus_name, bus_number, driver_id, driver_name, read_by_driver, read_by_admin,
	driver_response, status, created_at`

func (s *Store) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback (id, subject, message, student_id, student_name, is_anonymous, bus_ref,
			bus_name, bus_number, driver_id, driver_name, read_by_driver, read_by_admin,
			driver_response, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, fb.ID, fb.Subject, fb.Message, fb.StudentID, fb.StudentName, fb.IsAnonymous, fb.BusRef,
		fb.BusName, fb.BusNumber, fb.DriverID, fb.DriverName, fb.ReadByDriver, fb.ReadByAdmin,
		fb.DriverResponse, fb.Status, fb.CreatedAt)
	return mapError(err)
}

func (s *Store) GetFeedback(ctx context.Context, id string) (model.Feedback, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id)
	if err != nil {
		return model.Feedback{}, mapError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Feedback{}, mapError(err)
		}
		return model.Feedback{}, ErrNotFound
	}
	return scanFeedback(rows)
}

func (s *Store) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	return s.queryFeedback(ctx, `SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC`)
}

// ListFeedbackForDriver returns the standalone feedback addressed to one
// driver, newest first.
func (s *Store) ListFeedbackForDriver(ctx context.Context, driverID string) ([]model.Feedback, error) {
	return s.queryFeedback(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE driver_id = $1 ORDER BY created_at DESC`, driverID)
}

// MarkFeedbackReadByDriver sets the driver read flag, but only when the
// record is addressed to the calling driver. ErrNotFound covers both an
// unknown id and another driver's record.
func (s *Store) MarkFeedbackReadByDriver(ctx context.Context, id, driverID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE feedback SET read_by_driver = true WHERE id = $1 AND driver_id = $2
	`, id, driverID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RespondToFeedback records the driver's response, with the same ownership
// guard as MarkFeedbackReadByDriver.
func (s *Store) RespondToFeedback(ctx context.Context, id, driverID, response string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE feedback SET driver_response = $3, status = $4 WHERE id = $1 AND driver_id = $2
	`, id, driverID, response, model.FeedbackStatusResponding)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFeedbackReadByAdmin has no ownership guard: management is globally
// trusted.
func (s *Store) MarkFeedbackReadByAdmin(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE feedback SET read_by_admin = true WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryFeedback(ctx context.Context, query string, args ...any) ([]model.Feedback, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := []model.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, fb)
	}
	return list, mapError(rows.Err())
}

func scanFeedback(row rowScanner) (model.Feedback, error) {
	var fb model.Feedback
	err := row.Scan(&fb.ID, &fb.Subject, &fb.Message, &fb.StudentID, &fb.StudentName, &fb.IsAnonymous,
		&fb.BusRef, &fb.BusName, &fb.BusNumber, &fb.DriverID, &fb.DriverName, &fb.ReadByDriver,
		&fb.ReadByAdmin, &fb.DriverResponse, &fb.Status, &fb.CreatedAt)
	return fb, mapError(err)
}
