package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
)

// busesRunningOn filters buses down to those with any schedule entry on the
// given weekday abbreviation.
func busesRunningOn(buses []model.Bus, day string) []model.Bus {
	out := []model.Bus{}
	for _, bus := range buses {
		if bus.RunsOn(day) {
			out = append(out, bus)
		}
	}
	return out
}

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListActiveBuses(r.Context())
	if err != nil {
		s.logger.Error("listing active buses failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	today := model.WeekdayAbbrev(time.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                true,
		"user":                   identityFromContext(r.Context()),
		"buses":                  buses,
		"busesCount":             len(buses),
		"busesWithScheduleToday": busesRunningOn(buses, today),
	})
}

func (s *Server) handleStudentBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListActiveBuses(r.Context())
	if err != nil {
		s.logger.Error("listing active buses failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/student/dashboard", "error", "Failed to load buses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "buses": buses})
}

func (s *Server) handleStudentSchedule(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListActiveBuses(r.Context())
	if err != nil {
		s.logger.Error("listing active buses failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/student/dashboard", "error", "Failed to load bus schedule")
		return
	}

	today := model.WeekdayAbbrev(time.Now())
	selectedDay := r.URL.Query().Get("day")
	if selectedDay == "" {
		selectedDay = today
	}

	var selectedBus *model.Bus
	if selectedBusID := r.URL.Query().Get("busId"); selectedBusID != "" {
		bus, err := s.store.GetBusByBusID(r.Context(), selectedBusID)
		if err == nil && bus.IsActive {
			selectedBus = &bus
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"buses":       buses,
		"today":       today,
		"selectedDay": selectedDay,
		"selectedBus": selectedBus,
	})
}

func (s *Server) handleStudentTrack(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListActiveBuses(r.Context())
	if err != nil {
		s.logger.Error("listing active buses failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/student/buses", "error", "Failed to load tracking data")
		return
	}

	var selectedBus *model.Bus
	if busID := chi.URLParam(r, "busId"); busID != "" {
		bus, err := s.store.GetBusByBusID(r.Context(), busID)
		if err != nil || !bus.IsActive {
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				s.logger.Error("bus lookup failed", zap.Error(err), zap.String("busId", busID))
			}
			s.redirectWithFlash(w, r, "/student/buses", "error", "Bus not found or not active")
			return
		}
		selectedBus = &bus
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"buses":       buses,
		"selectedBus": selectedBus,
	})
}

// handleBusFeedback appends an entry to the bus's embedded feedback list.
// An out-of-range rating is rejected before the bus is even loaded, so the
// aggregate is never touched.
func (s *Server) handleBusFeedback(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	busID := chi.URLParam(r, "busId")

	_ = r.ParseForm()
	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		s.redirectWithFlash(w, r, "/student/track/"+busID, "error", "Please provide a valid rating between 1 and 5")
		return
	}

	bus, err := s.store.GetBusByBusID(r.Context(), busID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/student/buses", "error", "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("busId", busID))
		s.redirectWithFlash(w, r, "/student/buses", "error", "Failed to submit feedback")
		return
	}

	bus.AddFeedback(model.BusFeedbackEntry{
		ID:          uuid.NewString(),
		StudentID:   identity.ID,
		StudentName: identity.Name,
		Message:     r.PostFormValue("message"),
		Rating:      rating,
		Timestamp:   time.Now().UTC(),
		IsRead:      false,
	})
	if err := s.store.UpdateBus(r.Context(), &bus); err != nil {
		s.logger.Error("feedback write failed", zap.Error(err), zap.String("busId", busID))
		s.redirectWithFlash(w, r, "/student/buses", "error", "Failed to submit feedback")
		return
	}

	s.redirectWithFlash(w, r, "/student/track/"+busID, "success", "Thank you for your feedback!")
}

func (s *Server) handleStudentProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	student, err := s.store.GetStudentByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/student/dashboard", "error", "User not found")
			return
		}
		s.logger.Error("student lookup failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/student/dashboard", "error", "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": student})
}

func (s *Server) handleBusLocation(w http.ResponseWriter, r *http.Request) {
	busID := chi.URLParam(r, "busId")
	bus, err := s.store.GetBusByBusID(r.Context(), busID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apiError(w, http.StatusNotFound, "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("busId", busID))
		apiError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	var lastUpdated *time.Time
	if bus.CurrentCoordinates != nil {
		lastUpdated = &bus.CurrentCoordinates.LastUpdated
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"busId":            bus.BusID,
		"busName":          bus.BusName,
		"currentLocation":  bus.CurrentLocation,
		"coordinates":      bus.CurrentCoordinates,
		"boardingPoint":    bus.BoardingPoint,
		"destinationPoint": bus.DestinationPoint,
		"lastUpdated":      lastUpdated,
	})
}

func (s *Server) handleAllBusLocations(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListActiveBuses(r.Context())
	if err != nil {
		s.logger.Error("listing active buses failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	locations := make([]map[string]any, 0, len(buses))
	for _, bus := range buses {
		lastUpdated := time.Now().UTC()
		if bus.CurrentCoordinates != nil {
			lastUpdated = bus.CurrentCoordinates.LastUpdated
		}
		locations = append(locations, map[string]any{
			"_id":             bus.ID,
			"busId":           bus.BusID,
			"busName":         bus.BusName,
			"busNumber":       bus.BusNumber,
			"route":           bus.Route,
			"isActive":        bus.IsActive,
			"currentLocation": bus.CurrentLocation,
			"coordinates":     bus.CurrentCoordinates,
			"lastUpdated":     lastUpdated,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "buses": locations})
}

type sendFeedbackRequest struct {
	BusID       string `json:"busId"`
	Subject     string `json:"subject" validate:"required"`
	Message     string `json:"message" validate:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func (s *Server) handleSendFeedback(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req sendFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Subject and message are required")
		return
	}

	fb := model.Feedback{
		ID:          uuid.NewString(),
		Subject:     req.Subject,
		Message:     req.Message,
		StudentID:   identity.ID,
		StudentName: model.DisplayName(identity.Name, req.IsAnonymous),
		IsAnonymous: req.IsAnonymous,
		BusName:     "General Feedback",
		BusNumber:   "N/A",
		DriverName:  "N/A",
		Status:      model.FeedbackStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.denormalizeBus(r.Context(), req.BusID, func(bus model.Bus) {
		fb.BusRef = &bus.ID
		fb.BusName = busDisplayName(bus)
		fb.BusNumber = bus.BusNumber
		fb.DriverID = &bus.ID
		fb.DriverName = bus.DriverName
	})

	if err := s.store.CreateFeedback(r.Context(), &fb); err != nil {
		s.logger.Error("feedback create failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, "An error occurred while submitting your feedback. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your feedback has been submitted successfully!",
	})
}

type sendComplaintRequest struct {
	BusID       string `json:"busId"`
	Type        string `json:"type" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Severity    string `json:"severity"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func (s *Server) handleSendComplaint(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req sendComplaintRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Type, subject and message are required")
		return
	}

	complaint := model.Complaint{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Subject:     req.Subject,
		Message:     req.Message,
		Severity:    parseSeverity(req.Severity),
		StudentID:   identity.ID,
		StudentName: model.DisplayName(identity.Name, req.IsAnonymous),
		IsAnonymous: req.IsAnonymous,
		Status:      model.ComplaintStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	s.denormalizeBus(r.Context(), req.BusID, func(bus model.Bus) {
		complaint.BusRef = &bus.ID
		complaint.BusName = busDisplayName(bus)
		complaint.BusNumber = bus.BusNumber
		complaint.DriverID = &bus.ID
		complaint.DriverName = bus.DriverName
	})

	if err := s.store.CreateComplaint(r.Context(), &complaint); err != nil {
		s.logger.Error("complaint create failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, "An error occurred while submitting your complaint. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your complaint has been submitted successfully!",
	})
}

// denormalizeBus copies bus/driver display fields onto a record at creation
// time when the named bus resolves. A stale or missing reference is not an
// error; the record just stays general.
func (s *Server) denormalizeBus(ctx context.Context, busRowID string, apply func(model.Bus)) {
	if busRowID == "" {
		return
	}
	bus, err := s.store.GetBusByID(ctx, busRowID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", busRowID))
		}
		return
	}
	apply(bus)
}

// parseSeverity parses a submitted severity, falling back to the default
// when absent or unparseable.
func parseSeverity(raw string) int {
	severity, err := strconv.Atoi(raw)
	if err != nil {
		return model.DefaultComplaintSeverity
	}
	return severity
}

func busDisplayName(bus model.Bus) string {
	if bus.BusName != "" {
		return bus.BusName
	}
	return bus.BusID
}
