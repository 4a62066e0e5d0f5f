package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The bus aggregate's owned lists (schedule, recent activity, embedded
// feedback) live as jsonb on the bus row itself, so every mutation is a
// single-row read-modify-write like the original document store.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id            uuid PRIMARY KEY,
		name          text NOT NULL,
		email         text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		student_no    text NOT NULL,
		department    text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS buses (
		id                  uuid PRIMARY KEY,
		bus_id              text NOT NULL UNIQUE,
		bus_name            text NOT NULL DEFAULT '',
		bus_number          text NOT NULL DEFAULT '',
		plate_number        text NOT NULL DEFAULT '',
		pin_hash            text NOT NULL,
		driver_name         text NOT NULL DEFAULT '',
		route               text NOT NULL DEFAULT '',
		capacity            integer NOT NULL DEFAULT 0,
		notes               text NOT NULL DEFAULT '',
		is_active           boolean NOT NULL DEFAULT true,
		current_location    text NOT NULL DEFAULT 'Not specified',
		current_coordinates jsonb,
		boarding_point      jsonb,
		destination_point   jsonb,
		schedule            jsonb NOT NULL DEFAULT '[]',
		recent_activity     jsonb NOT NULL DEFAULT '[]',
		feedback            jsonb NOT NULL DEFAULT '[]',
		last_maintenance    timestamptz,
		next_maintenance    timestamptz,
		fuel_status         integer,
		engine_health       integer,
		created_at          timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id              uuid PRIMARY KEY,
		subject         text NOT NULL DEFAULT '',
		message         text NOT NULL DEFAULT '',
		student_id      text NOT NULL,
		student_name    text NOT NULL,
		is_anonymous    boolean NOT NULL DEFAULT false,
		bus_ref         uuid,
		bus_name        text NOT NULL DEFAULT 'General Feedback',
		bus_number      text NOT NULL DEFAULT 'N/A',
		driver_id       uuid,
		driver_name     text NOT NULL DEFAULT 'N/A',
		read_by_driver  boolean NOT NULL DEFAULT false,
		read_by_admin   boolean NOT NULL DEFAULT false,
		driver_response text NOT NULL DEFAULT '',
		status          text NOT NULL DEFAULT 'pending',
		created_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id             uuid PRIMARY KEY,
		type           text NOT NULL DEFAULT '',
		subject        text NOT NULL DEFAULT '',
		message        text NOT NULL DEFAULT '',
		severity       integer NOT NULL DEFAULT 3,
		student_id     text NOT NULL,
		student_name   text NOT NULL,
		is_anonymous   boolean NOT NULL DEFAULT false,
		bus_ref        uuid,
		bus_name       text NOT NULL DEFAULT '',
		bus_number     text NOT NULL DEFAULT '',
		driver_id      uuid,
		driver_name    text NOT NULL DEFAULT '',
		status         text NOT NULL DEFAULT 'open',
		admin_response text NOT NULL DEFAULT '',
		read_by_admin  boolean NOT NULL DEFAULT false,
		created_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS feedback_driver_idx ON feedback (driver_id)`,
	`CREATE INDEX IF NOT EXISTS complaints_status_idx ON complaints (status)`,
}

// EnsureSchema creates missing tables and indexes at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
