package repository

import (
	"context"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

func (s *Store) CreateStudent(ctx context.Context, student *model.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, name, email, password_hash, student_no, department, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, student.ID, student.Name, student.Email, student.PasswordHash, student.StudentNumber, student.Department, student.CreatedAt)
	return mapError(err)
}

func (s *Store) GetStudentByEmail(ctx context.Context, email string) (model.Student, error) {
	return s.scanStudent(ctx, `
		SELECT id, name, email, password_hash, student_no, department, created_at
		FROM students WHERE email = $1
	`, email)
}

func (s *Store) GetStudentByID(ctx context.Context, id string) (model.Student, error) {
	return s.scanStudent(ctx, `
		SELECT id, name, email, password_hash, student_no, department, created_at
		FROM students WHERE id = $1
	`, id)
}

func (s *Store) scanStudent(ctx context.Context, query string, arg any) (model.Student, error) {
	var st model.Student
	row := s.pool.QueryRow(ctx, query, arg)
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.PasswordHash, &st.StudentNumber, &st.Department, &st.CreatedAt)
	return st, mapError(err)
}

func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, password_hash, student_no, department, created_at
		FROM students ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.PasswordHash, &st.StudentNumber, &st.Department, &st.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		students = append(students, st)
	}
	return students, mapError(rows.Err())
}

func (s *Store) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&count)
	return count, mapError(err)
}
