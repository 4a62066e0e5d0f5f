package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/config"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/session"
)

type Server struct {
	cfg      config.Config
	store    *repository.Store
	sessions *session.Store
	logger   *zap.Logger
	validate *validator.Validate
}

func NewServer(cfg config.Config, store *repository.Store, sessions *session.Store, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup/student", s.handleStudentSignup)
		r.Post("/login/student", s.handleStudentLogin)
		r.Post("/login/driver", s.handleDriverLogin)
		r.Post("/login/management", s.handleManagementLogin)
		r.With(s.withIdentity).Get("/logout", s.handleLogout)
	})

	r.Route("/student", func(r chi.Router) {
		r.Use(s.withIdentity, s.requireRole(model.RoleStudent))
		r.Get("/dashboard", s.handleStudentDashboard)
		r.Get("/buses", s.handleStudentBuses)
		r.Get("/schedule", s.handleStudentSchedule)
		r.Get("/track", s.handleStudentTrack)
		r.Get("/track/{busId}", s.handleStudentTrack)
		r.Post("/feedback/{busId}", s.handleBusFeedback)
		r.Get("/profile", s.handleStudentProfile)
		r.Get("/api/bus-location/{busId}", s.handleBusLocation)
		r.Get("/api/all-bus-locations", s.handleAllBusLocations)
		r.Post("/send-feedback", s.handleSendFeedback)
		r.Post("/send-complaint", s.handleSendComplaint)
	})

	r.Route("/driver", func(r chi.Router) {
		r.Use(s.withIdentity, s.requireRole(model.RoleDriver))
		r.Get("/dashboard", s.handleDriverDashboard)
		r.Get("/profile", s.handleDriverProfile)
		r.Get("/update-location", s.handleUpdateLocationPage)
		r.Post("/update-location", s.handleUpdateLocation)
		r.Get("/feedback", s.handleDriverFeedback)
		r.Post("/feedback/mark-read/{id}", s.handleDriverFeedbackMarkRead)
		r.Post("/feedback/respond/{id}", s.handleDriverFeedbackRespond)
	})

	r.Route("/management", func(r chi.Router) {
		r.Use(s.withIdentity, s.requireRole(model.RoleManagement))
		r.Get("/dashboard", s.handleManagementDashboard)
		r.Get("/buses", s.handleManagementBuses)
		r.Post("/buses/add", s.handleAddBus)
		r.Get("/buses/view/{id}", s.handleViewBus)
		r.Get("/buses/edit/{id}", s.handleEditBus)
		r.Post("/buses/update/{id}", s.handleUpdateBus)
		r.Post("/buses/delete/{id}", s.handleDeleteBus)
		r.Get("/api/buses", s.handleAPIBuses)
		r.Get("/students", s.handleManagementStudents)
		r.Get("/feedback", s.handleManagementFeedback)
		r.Post("/feedback/mark-read/{id}", s.handleManagementFeedbackMarkRead)
		r.Post("/complaints/update-status/{id}", s.handleComplaintUpdateStatus)
		r.Post("/complaints/resolve/{busId}/{feedbackId}", s.handleResolveEmbeddedComplaint)
	})

	return r
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// apiError is the JSON error envelope used by the AJAX surface.
func apiError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

const flashCookie = "flash"

// redirectWithFlash finishes a form flow: the transient message rides in a
// read-once cookie and the client is sent to the fixed target path. Success
// and failure differ only in the message.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// isAJAX mirrors express req.xhr.
func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
