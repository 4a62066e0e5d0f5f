package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/crypto"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
)

// embeddedFeedbackView is an embedded feedback entry annotated with the bus
// it came from, for the management dashboard.
type embeddedFeedbackView struct {
	model.BusFeedbackEntry
	Bus busSummary `json:"bus"`
}

type busSummary struct {
	ID         string `json:"_id"`
	BusID      string `json:"busId"`
	BusName    string `json:"busName"`
	DriverName string `json:"driverName"`
}

// splitEmbeddedFeedback flattens every bus's embedded feedback and
// partitions it: rating <= 3 counts as a complaint. Both halves come back
// newest first.
func splitEmbeddedFeedback(buses []model.Bus) (complaints, positive []embeddedFeedbackView) {
	complaints = []embeddedFeedbackView{}
	positive = []embeddedFeedbackView{}
	for _, bus := range buses {
		summary := busSummary{ID: bus.ID, BusID: bus.BusID, BusName: bus.BusName, DriverName: bus.DriverName}
		for _, entry := range bus.Feedback {
			view := embeddedFeedbackView{BusFeedbackEntry: entry, Bus: summary}
			if entry.IsComplaint() {
				complaints = append(complaints, view)
			} else {
				positive = append(positive, view)
			}
		}
	}
	byNewest := func(views []embeddedFeedbackView) {
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Timestamp.After(views[j].Timestamp)
		})
	}
	byNewest(complaints)
	byNewest(positive)
	return complaints, positive
}

// distinctRoutes collects the unique non-empty route labels in bus order.
func distinctRoutes(buses []model.Bus) []string {
	seen := map[string]bool{}
	routes := []string{}
	for _, bus := range buses {
		if bus.Route == "" || seen[bus.Route] {
			continue
		}
		seen[bus.Route] = true
		routes = append(routes, bus.Route)
	}
	return routes
}

func (s *Server) handleManagementDashboard(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListBuses(r.Context())
	if err != nil {
		s.logger.Error("listing buses failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, "Could not load dashboard data")
		return
	}
	studentCount, err := s.store.CountStudents(r.Context())
	if err != nil {
		s.logger.Error("counting students failed", zap.Error(err))
		apiError(w, http.StatusInternalServerError, "Could not load dashboard data")
		return
	}

	complaints, positive := splitEmbeddedFeedback(buses)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"buses":        buses,
		"feedback":     positive,
		"complaints":   complaints,
		"studentCount": studentCount,
		"routes":       distinctRoutes(buses),
		"reports":      []any{},
	})
}

func (s *Server) handleManagementBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListBuses(r.Context())
	if err != nil {
		s.logger.Error("listing buses failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/management/dashboard", "error", "Failed to fetch buses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "buses": buses})
}

func (s *Server) handleAddBus(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	busName := r.PostFormValue("busName")
	busID := r.PostFormValue("busId")
	busNumber := r.PostFormValue("busNumber")
	plateNumber := r.PostFormValue("plateNumber")
	driverName := r.PostFormValue("driverName")
	route := r.PostFormValue("route")
	capacity := r.PostFormValue("capacity")
	pin := r.PostFormValue("pin")
	confirmPin := r.PostFormValue("confirmPin")

	if busName == "" || busID == "" || busNumber == "" || plateNumber == "" || driverName == "" || route == "" || capacity == "" || pin == "" {
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "Please fill in all required fields")
		return
	}
	if pin != confirmPin {
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "PINs do not match")
		return
	}

	if _, err := s.store.GetBusByBusID(r.Context(), busID); err == nil {
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "Bus ID already exists. Please choose a different ID")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("busId", busID))
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "An error occurred while adding the bus")
		return
	}

	pinHash, err := crypto.HashPassword(pin)
	if err != nil {
		s.logger.Error("pin hashing failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "An error occurred while adding the bus")
		return
	}

	capacityValue, _ := strconv.Atoi(capacity)
	currentLocation := r.PostFormValue("currentLocation")
	if currentLocation == "" {
		currentLocation = "Not specified"
	}

	now := time.Now().UTC()
	bus := model.Bus{
		ID:              uuid.NewString(),
		BusID:           busID,
		BusName:         busName,
		BusNumber:       busNumber,
		PlateNumber:     plateNumber,
		PINHash:         pinHash,
		DriverName:      driverName,
		Route:           route,
		Capacity:        capacityValue,
		Notes:           r.PostFormValue("notes"),
		IsActive:        r.PostFormValue("isActive") == "on",
		CurrentLocation: currentLocation,
		Schedule:        model.DefaultSchedule(),
		CreatedAt:       now,
	}
	bus.AddActivity("Bus Added", "Bus was added to the system", now)

	if err := s.store.CreateBus(r.Context(), &bus); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.redirectWithFlash(w, r, "/management/buses/add", "error", "Bus ID already exists. Please choose a different ID")
			return
		}
		s.logger.Error("bus create failed", zap.Error(err), zap.String("busId", busID))
		s.redirectWithFlash(w, r, "/management/buses/add", "error", "An error occurred while adding the bus")
		return
	}
	s.redirectWithFlash(w, r, "/management/buses", "success", "Bus added successfully")
}

func (s *Server) handleViewBus(w http.ResponseWriter, r *http.Request) {
	s.busByIDOrRedirect(w, r, "An error occurred while retrieving bus details")
}

func (s *Server) handleEditBus(w http.ResponseWriter, r *http.Request) {
	s.busByIDOrRedirect(w, r, "An error occurred while retrieving bus details")
}

func (s *Server) busByIDOrRedirect(w http.ResponseWriter, r *http.Request, failureMessage string) {
	id := chi.URLParam(r, "id")
	bus, err := s.store.GetBusByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/management/buses", "error", "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/management/buses", "error", failureMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "bus": bus})
}

// handleUpdateBus overwrites the profile fields wholesale; every call must
// resupply them. Maintenance fields are the exception and apply only when
// present, matching the original's split semantics.
func (s *Server) handleUpdateBus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editPath := "/management/buses/edit/" + id

	bus, err := s.store.GetBusByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/management/buses", "error", "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, editPath, "error", "An error occurred while updating the bus")
		return
	}

	_ = r.ParseForm()
	bus.BusName = r.PostFormValue("busName")
	bus.BusNumber = r.PostFormValue("busNumber")
	bus.PlateNumber = r.PostFormValue("plateNumber")
	bus.DriverName = r.PostFormValue("driverName")
	bus.Route = r.PostFormValue("route")
	bus.Capacity, _ = strconv.Atoi(r.PostFormValue("capacity"))
	bus.Notes = r.PostFormValue("notes")
	bus.IsActive = r.PostFormValue("isActive") == "on"
	if location := r.PostFormValue("currentLocation"); location != "" {
		bus.CurrentLocation = location
	} else {
		bus.CurrentLocation = "Not specified"
	}

	if raw := r.PostFormValue("lastMaintenanceDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			bus.LastMaintenance = &t
		}
	}
	if raw := r.PostFormValue("nextMaintenanceDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			bus.NextMaintenance = &t
		}
	}
	if raw := r.PostFormValue("fuelStatus"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			bus.FuelStatus = &v
		}
	}
	if raw := r.PostFormValue("engineHealth"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			bus.EngineHealth = &v
		}
	}

	currentPin := r.PostFormValue("currentPin")
	newPin := r.PostFormValue("newPin")
	confirmNewPin := r.PostFormValue("confirmNewPin")
	if currentPin != "" && newPin != "" && confirmNewPin != "" {
		if err := crypto.CheckPassword(bus.PINHash, currentPin); err != nil {
			s.redirectWithFlash(w, r, editPath, "error", "Current PIN is incorrect")
			return
		}
		if newPin != confirmNewPin {
			s.redirectWithFlash(w, r, editPath, "error", "New PINs do not match")
			return
		}
		pinHash, err := crypto.HashPassword(newPin)
		if err != nil {
			s.logger.Error("pin hashing failed", zap.Error(err))
			s.redirectWithFlash(w, r, editPath, "error", "An error occurred while updating the bus")
			return
		}
		bus.PINHash = pinHash
	}

	bus.AddActivity("Bus Updated", "Bus information was updated by management", time.Now().UTC())

	if err := s.store.UpdateBus(r.Context(), &bus); err != nil {
		s.logger.Error("bus update failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, editPath, "error", "An error occurred while updating the bus")
		return
	}
	s.redirectWithFlash(w, r, "/management/buses", "success", "Bus updated successfully")
}

// handleDeleteBus removes the bus unconditionally. Standalone feedback and
// complaints referencing it keep their dangling denormalized fields.
func (s *Server) handleDeleteBus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteBus(r.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("bus delete failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/management/buses", "error", "An error occurred while deleting the bus")
		return
	}
	s.redirectWithFlash(w, r, "/management/buses", "success", "Bus deleted successfully")
}

func (s *Server) handleAPIBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := s.store.ListBuses(r.Context())
	if err != nil {
		s.logger.Error("listing buses failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch buses"})
		return
	}
	writeJSON(w, http.StatusOK, buses)
}

func (s *Server) handleManagementStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		s.logger.Error("listing students failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/management/dashboard", "error", "Failed to fetch students")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "students": students})
}

func (s *Server) handleManagementFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := s.store.ListFeedback(r.Context())
	if err != nil {
		s.logger.Error("listing feedback failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/management/dashboard", "error", "Failed to load feedback and complaints")
		return
	}
	complaints, err := s.store.ListComplaints(r.Context())
	if err != nil {
		s.logger.Error("listing complaints failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/management/dashboard", "error", "Failed to load feedback and complaints")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"feedback":   feedback,
		"complaints": complaints,
	})
}

func (s *Server) handleManagementFeedbackMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.MarkFeedbackReadByAdmin(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/management/feedback", "error", "Feedback not found")
			return
		}
		s.logger.Error("feedback mark-read failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/management/feedback", "error", "Failed to update feedback")
		return
	}
	s.redirectWithFlash(w, r, "/management/feedback", "success", "Feedback marked as read")
}

func (s *Server) handleComplaintUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	status := r.PostFormValue("status")
	adminResponse := r.PostFormValue("adminResponse")

	if err := s.store.UpdateComplaintStatus(r.Context(), id, status, adminResponse); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/management/feedback", "error", "Complaint not found")
			return
		}
		s.logger.Error("complaint update failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/management/feedback", "error", "Failed to update complaint")
		return
	}
	s.redirectWithFlash(w, r, "/management/feedback", "success", "Complaint updated successfully")
}

// handleResolveEmbeddedComplaint resolves one entry inside a bus's embedded
// feedback list. AJAX callers get the JSON envelope; form posts get the
// usual flash redirect.
func (s *Server) handleResolveEmbeddedComplaint(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	busRowID := chi.URLParam(r, "busId")
	feedbackID := chi.URLParam(r, "feedbackId")

	bus, err := s.store.GetBusByID(r.Context(), busRowID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apiError(w, http.StatusNotFound, "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", busRowID))
		s.resolveFailure(w, r)
		return
	}

	resolved := false
	now := time.Now().UTC()
	for i := range bus.Feedback {
		if bus.Feedback[i].ID == feedbackID {
			bus.Feedback[i].Resolved = true
			bus.Feedback[i].ResolvedAt = &now
			bus.Feedback[i].ResolvedBy = identity.Name
			resolved = true
			break
		}
	}
	if !resolved {
		apiError(w, http.StatusNotFound, "Feedback not found")
		return
	}

	if err := s.store.UpdateBus(r.Context(), &bus); err != nil {
		s.logger.Error("complaint resolve failed", zap.Error(err), zap.String("id", busRowID))
		s.resolveFailure(w, r)
		return
	}

	if isAJAX(r) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Complaint marked as resolved"})
		return
	}
	s.redirectWithFlash(w, r, "/management/dashboard", "success", "Complaint marked as resolved.")
}

func (s *Server) resolveFailure(w http.ResponseWriter, r *http.Request) {
	if isAJAX(r) {
		apiError(w, http.StatusInternalServerError, "Error resolving complaint")
		return
	}
	s.redirectWithFlash(w, r, "/management/dashboard", "error", "Error resolving complaint.")
}
