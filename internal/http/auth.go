package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/crypto"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/repository"
)

// Login failures are deliberately uniform: the message never reveals
// whether the identity or the secret was wrong.
const (
	msgInvalidEmailOrPassword = "Invalid email or password"
	msgInvalidBusIDOrPIN      = "Invalid Bus ID or PIN"
	msgFillAllFields          = "Please fill in all fields"
	msgServerError            = "Server Error"
)

func (s *Server) handleStudentSignup(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	confirmPassword := r.PostFormValue("confirmPassword")
	studentID := r.PostFormValue("studentId")
	department := r.PostFormValue("department")

	if name == "" || email == "" || password == "" || confirmPassword == "" || studentID == "" || department == "" {
		s.redirectWithFlash(w, r, "/signup/student", "error", msgFillAllFields)
		return
	}
	if password != confirmPassword {
		s.redirectWithFlash(w, r, "/signup/student", "error", "Passwords do not match")
		return
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		s.redirectWithFlash(w, r, "/signup/student", "error", msgServerError)
		return
	}

	student := model.Student{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		StudentNumber: studentID,
		Department:    department,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateStudent(r.Context(), &student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.redirectWithFlash(w, r, "/signup/student", "error", "Email is already registered")
			return
		}
		s.logger.Error("student signup failed", zap.Error(err), zap.String("email", email))
		s.redirectWithFlash(w, r, "/signup/student", "error", msgServerError)
		return
	}

	s.redirectWithFlash(w, r, "/login/student", "success", "You are now registered and can log in")
}

func (s *Server) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		s.redirectWithFlash(w, r, "/login/student", "error", msgFillAllFields)
		return
	}

	student, err := s.store.GetStudentByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/login/student", "error", msgInvalidEmailOrPassword)
			return
		}
		s.logger.Error("student lookup failed", zap.Error(err), zap.String("email", email))
		s.redirectWithFlash(w, r, "/login/student", "error", msgServerError)
		return
	}
	if err := crypto.CheckPassword(student.PasswordHash, password); err != nil {
		s.redirectWithFlash(w, r, "/login/student", "error", msgInvalidEmailOrPassword)
		return
	}

	identity := model.Identity{
		Role:          model.RoleStudent,
		ID:            student.ID,
		Name:          student.Name,
		Email:         student.Email,
		StudentNumber: student.StudentNumber,
		Department:    student.Department,
	}
	s.establishSession(w, r, identity, "/student/dashboard", "/login/student")
}

func (s *Server) handleDriverLogin(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	busID := r.PostFormValue("busId")
	pin := r.PostFormValue("pin")

	if busID == "" || pin == "" {
		s.redirectWithFlash(w, r, "/login/driver", "error", msgFillAllFields)
		return
	}

	bus, err := s.store.GetBusByBusID(r.Context(), busID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.redirectWithFlash(w, r, "/login/driver", "error", msgInvalidBusIDOrPIN)
			return
		}
		s.logger.Error("bus lookup failed", zap.Error(err), zap.String("busId", busID))
		s.redirectWithFlash(w, r, "/login/driver", "error", msgServerError)
		return
	}
	if err := crypto.CheckPassword(bus.PINHash, pin); err != nil {
		s.redirectWithFlash(w, r, "/login/driver", "error", msgInvalidBusIDOrPIN)
		return
	}

	identity := model.Identity{
		Role:       model.RoleDriver,
		ID:         bus.ID,
		BusID:      bus.BusID,
		DriverName: bus.DriverName,
		Route:      bus.Route,
	}
	s.establishSession(w, r, identity, "/driver/dashboard", "/login/driver")
}

func (s *Server) handleManagementLogin(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		s.redirectWithFlash(w, r, "/login/management", "error", msgFillAllFields)
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		s.redirectWithFlash(w, r, "/login/management", "error", msgInvalidEmailOrPassword)
		return
	}

	identity := model.Identity{
		Role:  model.RoleManagement,
		Name:  "Admin",
		Email: email,
	}
	s.establishSession(w, r, identity, "/management/dashboard", "/login/management")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			s.logger.Error("session destroy failed", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, identity model.Identity, target, origin string) {
	token, err := s.sessions.Create(r.Context(), identity)
	if err != nil {
		s.logger.Error("session create failed", zap.Error(err))
		s.redirectWithFlash(w, r, origin, "error", msgServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
	})
	http.Redirect(w, r, target, http.StatusFound)
}
