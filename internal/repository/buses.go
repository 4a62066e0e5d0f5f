package repository

import (
	"context"
	"encoding/json"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

const busColumns = `id, bus_id, bus_name, bus_number, plate_number, pin_hash, driver_name, route,
	capacity, notes, is_active, current_location, current_coordinates, boarding_point,
	destination_point, schedule, recent_activity, feedback, last_maintenance, next_maintenance,
	fuel_status, engine_health, created_at`

func (s *Store) CreateBus(ctx context.Context, bus *model.Bus) error {
	coords, boarding, destination, schedule, activity, feedback, err := marshalBusLists(bus)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO buses (id, bus_id, bus_name, bus_number, plate_number, pin_hash, driver_name, route,
			capacity, notes, is_active, current_location, current_coordinates, boarding_point,
			destination_point, schedule, recent_activity, feedback, last_maintenance, next_maintenance,
			fuel_status, engine_health, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb, $14::jsonb,
			$15::jsonb, $16::jsonb, $17::jsonb, $18::jsonb, $19, $20, $21, $22, $23)
	`, bus.ID, bus.BusID, bus.BusName, bus.BusNumber, bus.PlateNumber, bus.PINHash, bus.DriverName, bus.Route,
		bus.Capacity, bus.Notes, bus.IsActive, bus.CurrentLocation, coords, boarding,
		destination, schedule, activity, feedback, bus.LastMaintenance, bus.NextMaintenance,
		bus.FuelStatus, bus.EngineHealth, bus.CreatedAt)
	return mapError(err)
}

// UpdateBus overwrites the whole bus row. Callers load the aggregate, mutate
// it in memory and write it back; concurrent writers can clobber each other,
// which mirrors the original document-store behavior.
func (s *Store) UpdateBus(ctx context.Context, bus *model.Bus) error {
	coords, boarding, destination, schedule, activity, feedback, err := marshalBusLists(bus)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE buses SET bus_name = $2, bus_number = $3, plate_number = $4, pin_hash = $5,
			driver_name = $6, route = $7, capacity = $8, notes = $9, is_active = $10,
			current_location = $11, current_coordinates = $12::jsonb, boarding_point = $13::jsonb,
			destination_point = $14::jsonb, schedule = $15::jsonb, recent_activity = $16::jsonb,
			feedback = $17::jsonb, last_maintenance = $18, next_maintenance = $19,
			fuel_status = $20, engine_health = $21
		WHERE id = $1
	`, bus.ID, bus.BusName, bus.BusNumber, bus.PlateNumber, bus.PINHash,
		bus.DriverName, bus.Route, bus.Capacity, bus.Notes, bus.IsActive,
		bus.CurrentLocation, coords, boarding,
		destination, schedule, activity,
		feedback, bus.LastMaintenance, bus.NextMaintenance,
		bus.FuelStatus, bus.EngineHealth)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBus(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetBusByID(ctx context.Context, id string) (model.Bus, error) {
	return s.scanBusRow(ctx, `SELECT `+busColumns+` FROM buses WHERE id = $1`, id)
}

func (s *Store) GetBusByBusID(ctx context.Context, busID string) (model.Bus, error) {
	return s.scanBusRow(ctx, `SELECT `+busColumns+` FROM buses WHERE bus_id = $1`, busID)
}

func (s *Store) ListBuses(ctx context.Context) ([]model.Bus, error) {
	return s.scanBuses(ctx, `SELECT `+busColumns+` FROM buses ORDER BY created_at DESC`)
}

func (s *Store) ListActiveBuses(ctx context.Context) ([]model.Bus, error) {
	return s.scanBuses(ctx, `SELECT `+busColumns+` FROM buses WHERE is_active = true ORDER BY created_at DESC`)
}

func (s *Store) DeleteAllBuses(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM buses`)
	return mapError(err)
}

func (s *Store) scanBusRow(ctx context.Context, query string, arg any) (model.Bus, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return model.Bus{}, mapError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Bus{}, mapError(err)
		}
		return model.Bus{}, ErrNotFound
	}
	return scanBus(rows)
}

func (s *Store) scanBuses(ctx context.Context, query string) ([]model.Bus, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	buses := []model.Bus{}
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}
	return buses, mapError(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBus(row rowScanner) (model.Bus, error) {
	var (
		bus                           model.Bus
		coords, boarding, destination []byte
		schedule, activity, feedback  []byte
	)
	err := row.Scan(&bus.ID, &bus.BusID, &bus.BusName, &bus.BusNumber, &bus.PlateNumber, &bus.PINHash,
		&bus.DriverName, &bus.Route, &bus.Capacity, &bus.Notes, &bus.IsActive, &bus.CurrentLocation,
		&coords, &boarding, &destination, &schedule, &activity, &feedback,
		&bus.LastMaintenance, &bus.NextMaintenance, &bus.FuelStatus, &bus.EngineHealth, &bus.CreatedAt)
	if err != nil {
		return model.Bus{}, mapError(err)
	}
	if err := unmarshalInto(coords, &bus.CurrentCoordinates); err != nil {
		return model.Bus{}, err
	}
	if err := unmarshalInto(boarding, &bus.BoardingPoint); err != nil {
		return model.Bus{}, err
	}
	if err := unmarshalInto(destination, &bus.DestinationPoint); err != nil {
		return model.Bus{}, err
	}
	if err := unmarshalInto(schedule, &bus.Schedule); err != nil {
		return model.Bus{}, err
	}
	if err := unmarshalInto(activity, &bus.RecentActivity); err != nil {
		return model.Bus{}, err
	}
	if err := unmarshalInto(feedback, &bus.Feedback); err != nil {
		return model.Bus{}, err
	}
	return bus, nil
}

func unmarshalInto(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func marshalBusLists(bus *model.Bus) (coords, boarding, destination, schedule, activity, feedback *string, err error) {
	if coords, err = marshalNullable(bus.CurrentCoordinates == nil, bus.CurrentCoordinates); err != nil {
		return
	}
	if boarding, err = marshalNullable(bus.BoardingPoint == nil, bus.BoardingPoint); err != nil {
		return
	}
	if destination, err = marshalNullable(bus.DestinationPoint == nil, bus.DestinationPoint); err != nil {
		return
	}
	if schedule, err = marshalNullable(false, emptyAsList(bus.Schedule)); err != nil {
		return
	}
	if activity, err = marshalNullable(false, emptyAsList(bus.RecentActivity)); err != nil {
		return
	}
	feedback, err = marshalNullable(false, emptyAsList(bus.Feedback))
	return
}

func marshalNullable(isNil bool, v any) (*string, error) {
	if isNil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// emptyAsList keeps nil slices serializing as [] rather than null.
func emptyAsList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
