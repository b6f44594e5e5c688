package internalhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/lomoval/otus-golang/eventrsvp/internal/auth"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	errBadCredentials    = "Bad username or password"
	errMissingAuthHeader = "Missing Authorization Header"
	errBadAuthHeader     = "Authorization header must be of the form 'Bearer <token>'"
	errInvalidToken      = "Invalid or expired token"
	errDatabaseFailed    = "Database connection failed"
	errIncorrectEventID  = "incorrect event id"
	errEventNotFound     = "event not found"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type attendeesResponse struct {
	EventID        int64              `json:"event_id"`
	TotalAttendees int                `json:"total_attendees"`
	Attendees      []storage.Attendee `json:"attendees"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req loginRequest
	inbound, _ := runtime.MarshalerForRequest(s.mux, r)
	if err := inbound.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusUnauthorized, errBadCredentials)
		return
	}

	token, err := s.app.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.writeError(w, r, http.StatusUnauthorized, errBadCredentials)
		return
	}
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, loginResponse{AccessToken: token})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	query := r.URL.Query()
	filter := storage.EventFilter{
		Date:     query.Get("date"),
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}

	events, err := s.app.ListEvents(r.Context(), filter)
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, events)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errIncorrectEventID)
		return
	}

	event, err := s.app.GetEvent(r.Context(), id)
	if errors.Is(err, storage.ErrNotFoundEvent) {
		s.writeError(w, r, http.StatusNotFound, errEventNotFound)
		return
	}
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, event)
}

func (s *Server) handleListAttendees(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errIncorrectEventID)
		return
	}

	attendees, err := s.app.ListAttendees(r.Context(), id)
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	if attendees == nil {
		attendees = make([]storage.Attendee, 0)
	}
	s.writeJSON(w, r, http.StatusOK, attendeesResponse{EventID: id, TotalAttendees: len(attendees), Attendees: attendees})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if err := s.app.Ping(r.Context()); err != nil {
		log.Warnf("health check failed: %v", err)
		s.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeStorageError reports unreachable storage as 503 and any other failure
// as 500 with the error text.
func (s *Server) writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	entry := log.WithField("requestId", RequestID(r.Context())).WithField("path", r.URL.Path)
	if errors.Is(err, storage.ErrConnectionFailed) {
		entry.Errorf("database is unavailable: %v", err)
		s.writeError(w, r, http.StatusServiceUnavailable, errDatabaseFailed)
		return
	}
	entry.Errorf("request failed: %v", err)
	s.writeError(w, r, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	_, outbound := runtime.MarshalerForRequest(s.mux, r)
	writeMarshaled(w, outbound, status, v)
}

func writeMarshaled(w http.ResponseWriter, m runtime.Marshaler, status int, v interface{}) {
	data, err := m.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", m.ContentType(v))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}
