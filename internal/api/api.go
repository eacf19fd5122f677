// Package api exposes the admin surface the wedding site's dashboard calls:
// enqueue a reminder, browse send history, preview a template, poke the
// queue, and check transport health.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"VowMail/internal/directory"
	"VowMail/internal/models"
	"VowMail/internal/queue"
	"VowMail/internal/template"
	"VowMail/internal/transport"
)

type Handler struct {
	Svc        *queue.Service
	Sched      *queue.Scheduler
	Mailer     transport.Mailer
	Log        *zap.Logger
	AdminToken string
}

// Router wires the admin routes. Everything except the health probe sits
// behind the admin bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/api/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Post("/api/reminders", h.CreateReminder)
		r.Get("/api/reminders/templates", h.Templates)
		r.Get("/api/reminders/history", h.History)
		r.Get("/api/reminders/preview", h.Preview)
		r.Post("/api/reminders/tick", h.TickNow)
	})

	return r
}

// requireAdmin stands in for the site's session middleware. An empty
// configured token disables the gate for local development.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.AdminToken != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != h.AdminToken {
				respondError(w, http.StatusUnauthorized, "admin token required")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type createReminderRequest struct {
	GuestID  string `json:"guest_id"`
	Template string `json:"template"`
}

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Svc.Enqueue(r.Context(), req.GuestID, req.Template)
	if err != nil {
		if errors.Is(err, template.ErrUnknownTemplate) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("enqueue failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not enqueue reminder")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

// Templates lists the closed template set, for the dashboard's template
// picker.
func (h *Handler) Templates(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"templates": template.IDs()})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	status := models.JobStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	entries, err := h.Svc.History(r.Context(), limit, status)
	if err != nil {
		h.Log.Error("history query failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reminders": entries,
		"count":     len(entries),
	})
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	guestID := r.URL.Query().Get("guest_id")
	templateID := r.URL.Query().Get("template")
	if guestID == "" || templateID == "" {
		respondError(w, http.StatusBadRequest, "guest_id and template are required")
		return
	}

	result, err := h.Svc.Preview(r.Context(), guestID, templateID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrGuestNotFound):
			respondError(w, http.StatusNotFound, "guest not found")
		case errors.Is(err, template.ErrUnknownTemplate):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.Log.Error("preview failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not render preview")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// TickNow runs one sweep immediately, for the dashboard's "send reminders
// now" button.
func (h *Handler) TickNow(w http.ResponseWriter, r *http.Request) {
	n, err := h.Sched.Tick(r.Context(), time.Now().UTC())
	if err != nil {
		h.Log.Error("manual tick failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "queue tick failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"processed": n})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transport":  h.Mailer.Mode(),
		"configured": h.Mailer.Mode() == transport.ModeSMTP,
		"healthy":    h.Mailer.Healthy(r.Context()),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
