package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/config"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/crypto"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/db"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
)

// Seeds a single known bus for local development: log in as a driver with
// bus ID BUS101 and PIN 1234. Existing buses are wiped first.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	store := repository.NewStore(pool)

	if err := store.DeleteAllBuses(ctx); err != nil {
		logger.Fatal("clearing buses failed", zap.Error(err))
	}

	pinHash, err := crypto.HashPassword("1234")
	if err != nil {
		logger.Fatal("pin hashing failed", zap.Error(err))
	}

	now := time.Now().UTC()
	bus := model.Bus{
		ID:              uuid.NewString(),
		BusID:           "BUS101",
		BusName:         "Campus Express",
		BusNumber:       "101",
		PlateNumber:     "KA-01-F-1234",
		PINHash:         pinHash,
		DriverName:      "John Driver",
		Route:           "Campus ↔ City Center",
		Capacity:        40,
		IsActive:        true,
		CurrentLocation: "College Campus",
		Schedule:        model.DefaultSchedule(),
		CreatedAt:       now,
	}
	bus.AddActivity("Bus Added", "Bus was added to the system", now)

	if err := store.CreateBus(ctx, &bus); err != nil {
		logger.Fatal("bus seed failed", zap.Error(err))
	}

	logger.Info("seeded test bus",
		zap.String("busId", bus.BusID),
		zap.String("pin", "1234"),
		zap.String("driver", bus.DriverName))
}
