package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
)

func (s *Server) handleDriverDashboard(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	bus, err := s.store.GetBusByID(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", identity.ID))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"user":    identity,
			"message": "Failed to load bus data",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": identity, "bus": bus})
}

func (s *Server) handleDriverProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    identityFromContext(r.Context()),
	})
}

func (s *Server) handleUpdateLocationPage(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	bus, err := s.store.GetBusByID(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", identity.ID))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"user":    identity,
			"message": "Failed to load location data",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": identity, "bus": bus})
}

// locationForm carries the three independent sub-updates of a driver
// location submission. Each applies only when its full coordinate pair is
// present; there is no geospatial validation beyond parsing.
type locationForm struct {
	CurrentLat, CurrentLon         string
	BoardingLat, BoardingLon       string
	BoardingPointName              string
	DestinationLat, DestinationLon string
	DestinationPointName           string
}

// applyLocationUpdate mutates the aggregate in memory and reports whether
// anything changed. A coordinate update overwrites the free-text location
// with a sentinel and prepends a capped activity entry.
func applyLocationUpdate(bus *model.Bus, form locationForm, now time.Time) bool {
	changed := false

	if lat, lon, ok := parseCoordinatePair(form.CurrentLat, form.CurrentLon); ok {
		bus.CurrentCoordinates = &model.Coordinates{Lat: lat, Lon: lon, LastUpdated: now}
		bus.CurrentLocation = model.LocationUpdatedLabel
		bus.AddActivity("Location Updated",
			fmt.Sprintf("Current location updated to coordinates (%s, %s)", form.CurrentLat, form.CurrentLon), now)
		changed = true
	}
	if lat, lon, ok := parseCoordinatePair(form.BoardingLat, form.BoardingLon); ok {
		name := form.BoardingPointName
		if name == "" {
			name = "Boarding Point"
		}
		bus.BoardingPoint = &model.Point{Name: name, Lat: lat, Lon: lon}
		changed = true
	}
	if lat, lon, ok := parseCoordinatePair(form.DestinationLat, form.DestinationLon); ok {
		name := form.DestinationPointName
		if name == "" {
			name = "Destination"
		}
		bus.DestinationPoint = &model.Point{Name: name, Lat: lat, Lon: lon}
		changed = true
	}
	return changed
}

func parseCoordinatePair(latRaw, lonRaw string) (lat, lon float64, ok bool) {
	if latRaw == "" || lonRaw == "" {
		return 0, 0, false
	}
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	bus, err := s.store.GetBusByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/driver/dashboard", "error", "Bus not found")
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("id", identity.ID))
		s.redirectWithFlash(w, r, "/driver/update-location", "error", "An error occurred while updating location data")
		return
	}

	_ = r.ParseForm()
	form := locationForm{
		CurrentLat:           r.PostFormValue("currentLat"),
		CurrentLon:           r.PostFormValue("currentLon"),
		BoardingLat:          r.PostFormValue("boardingLat"),
		BoardingLon:          r.PostFormValue("boardingLon"),
		BoardingPointName:    r.PostFormValue("boardingPointName"),
		DestinationLat:       r.PostFormValue("destinationLat"),
		DestinationLon:       r.PostFormValue("destinationLon"),
		DestinationPointName: r.PostFormValue("destinationPointName"),
	}
	applyLocationUpdate(&bus, form, time.Now().UTC())

	if err := s.store.UpdateBus(r.Context(), &bus); err != nil {
		s.logger.Error("location update failed", zap.Error(err), zap.String("id", identity.ID))
		s.redirectWithFlash(w, r, "/driver/update-location", "error", "An error occurred while updating location data")
		return
	}
	s.redirectWithFlash(w, r, "/driver/update-location", "success", "Location data updated successfully")
}

func (s *Server) handleDriverFeedback(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	feedback, err := s.store.ListFeedbackForDriver(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("feedback list failed", zap.Error(err), zap.String("id", identity.ID))
		s.redirectWithFlash(w, r, "/driver/dashboard", "error", "Failed to load feedback")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": feedback})
}

func (s *Server) handleDriverFeedbackMarkRead(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.store.MarkFeedbackReadByDriver(r.Context(), id, identity.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/driver/feedback", "error", "Feedback not found or not authorized")
			return
		}
		s.logger.Error("feedback mark-read failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/driver/feedback", "error", "Failed to update feedback status")
		return
	}
	s.redirectWithFlash(w, r, "/driver/feedback", "success", "Feedback marked as read")
}

func (s *Server) handleDriverFeedbackRespond(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	_ = r.ParseForm()
	response := r.PostFormValue("response")

	if err := s.store.RespondToFeedback(r.Context(), id, identity.ID, response); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/driver/feedback", "error", "Feedback not found or not authorized")
			return
		}
		s.logger.Error("feedback respond failed", zap.Error(err), zap.String("id", id))
		s.redirectWithFlash(w, r, "/driver/feedback", "error", "Failed to send response")
		return
	}
	s.redirectWithFlash(w, r, "/driver/feedback", "success", "Response sent successfully")
}
