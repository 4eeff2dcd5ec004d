package api

import (
	"net/http"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/studyaid-core/internal/store"
)

// userResponse is a user as returned to the UI. The password never leaves the store
// through the API.
type userResponse struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	AuthAccount     string  `json:"authAccount"`
	FieldOfInterest *string `json:"fieldOfInterest"`
	SchoolLevel     *string `json:"schoolLevel"`
	SignupDate      string  `json:"signupDate"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AuthAccount:     u.AuthAccount,
		FieldOfInterest: u.FieldOfInterest,
		SchoolLevel:     u.SchoolLevel,
		SignupDate:      u.SignupDate,
	}
}

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	AuthAccount string `json:"authAccount"`
	Password    string `json:"password"`
}

// handleCreateUser signs up a new user.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req store.NewUser
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.store.CreateUser(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, r, "create user", err)
		return
	}

	s.publish(mqtt.EventUserCreated, mqtt.Event{ID: id, UserID: id})
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleLogin looks up a user by exact account and password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuthAccount == "" || req.Password == "" {
		writeBadRequest(w, "authAccount and password are required")
		return
	}

	user, err := s.store.FindUserByCredentials(r.Context(), req.AuthAccount, req.Password)
	if err != nil {
		s.writeStoreError(w, r, "login", err)
		return
	}
	if user == nil {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
