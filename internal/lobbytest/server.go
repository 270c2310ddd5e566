// Package lobbytest runs an in-memory chess room server that speaks the same
// HTTP contract as the real backend. Tests use it to observe exactly which
// requests a client sent; the lobby's -demo mode uses it as a stand-in
// backend.
package lobbytest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Request is what the server recorded about one incoming call.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Accept      string
	RequestID   string
	Body        string
}

type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

type roomResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type roomsResponse struct {
	RoomResponseDtos []roomResponse `json:"roomResponseDtos"`
}

type roomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type injectedFailure struct {
	status      int
	contentType string
	body        string
}

// Handler serves the room API from an in-memory store.
type Handler struct {
	store  *roomStore
	router chi.Router

	mu       sync.Mutex
	requests []Request
	failures []injectedFailure
}

type Option func(*Handler)

// WithDeleteRequiresEnded makes deletion of an active room fail.
func WithDeleteRequiresEnded() Option {
	return func(h *Handler) {
		h.store.requireEnded = true
	}
}

func NewHandler(opts ...Option) *Handler {
	h := &Handler{store: newRoomStore()}
	for _, opt := range opts {
		opt(h)
	}
	h.router = h.mount()
	return h
}

func (h *Handler) mount() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.record)
	r.Use(h.injectFailures)

	r.Get("/", h.index)
	r.Route("/api/chess/rooms", func(r chi.Router) {
		r.Get("/", h.listRooms)
		r.Post("/", h.createRoom)
		r.Get("/{id}", h.getRoom)
		r.Patch("/{id}", h.updateRoom)
		r.Patch("/{id}/end", h.endRoom)
	})
	r.Post("/room/delete/", h.deleteRoomForm)
	r.Post("/room/update/", h.renameRoomForm)

	return r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Seed creates a room directly in the store and returns its id.
func (h *Handler) Seed(name, password string) int64 {
	room, err := h.store.create(name, password)
	if err != nil {
		panic("lobbytest: seeding room " + strconv.Quote(name) + ": " + err.Error())
	}
	return room.ID
}

// End marks a room ended without going through HTTP.
func (h *Handler) End(id int64) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if room, ok := h.store.rooms[id]; ok {
		room.Ended = true
	}
}

// Room returns the stored state of a room.
func (h *Handler) Room(id int64) (Room, bool) {
	room, err := h.store.get(id)
	if err != nil {
		return Room{}, false
	}
	return *room, true
}

// FailNext makes the next request answer with status and a raw body,
// whatever the route. Calls queue up.
func (h *Handler) FailNext(status int, contentType, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, injectedFailure{status: status, contentType: contentType, body: body})
}

// Requests returns a copy of every request received so far.
func (h *Handler) Requests() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

func (h *Handler) RequestCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.requests)
}

func (h *Handler) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := ""
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			r.Body = io.NopCloser(strings.NewReader(body))
		}

		h.mu.Lock()
		h.requests = append(h.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Body:        body,
		})
		h.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		var failure *injectedFailure
		if len(h.failures) > 0 {
			failure = &h.failures[0]
			h.failures = h.failures[1:]
		}
		h.mu.Unlock()

		if failure == nil {
			next.ServeHTTP(w, r)
			return
		}
		if failure.contentType != "" {
			w.Header().Set("Content-Type", failure.contentType)
		}
		w.WriteHeader(failure.status)
		_, _ = w.Write([]byte(failure.body))
	})
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html><title>chess rooms</title>"))
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.store.active()
	resp := roomsResponse{RoomResponseDtos: make([]roomResponse, 0, len(rooms))}
	for _, room := range rooms {
		resp.RoomResponseDtos = append(resp.RoomResponseDtos, roomResponse{ID: room.ID, Name: room.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	room, err := h.store.create(req.Name, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Location", "/api/chess/rooms/"+strconv.FormatInt(room.ID, 10))
	writeJSON(w, http.StatusCreated, roomResponse{ID: room.ID, Name: room.Name})
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	room, err := h.store.enterable(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{ID: room.ID, Name: room.Name})
}

func (h *Handler) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	room, err := h.store.rename(id, req.Name, req.Password, true)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{ID: room.ID, Name: room.Name})
}

func (h *Handler) endRoom(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.store.end(id, req.Password); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteRoomForm(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r.PostFormValue("roomId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.store.remove(id, r.PostFormValue("password")); err != nil {
		writeStoreError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renameRoomForm(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r.PostFormValue("roomId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if _, err := h.store.rename(id, r.PostFormValue("roomName"), "", false); err != nil {
		writeStoreError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func roomID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRoomID
	}
	return id, nil
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrRoomEnded),
		errors.Is(err, ErrBlankName),
		errors.Is(err, ErrBlankPassword),
		errors.Is(err, ErrInvalidRoomID),
		errors.Is(err, ErrRoomStillInUse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{ErrorMessage: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Server is a Handler listening on a loopback port.
type Server struct {
	*Handler
	*httptest.Server
}

// NewServer starts a server. Close it when done.
func NewServer(opts ...Option) *Server {
	h := NewHandler(opts...)
	return &Server{Handler: h, Server: httptest.NewServer(h)}
}
