package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pathakanu/myMeds/internal/assistant"
	"github.com/pathakanu/myMeds/internal/reminder"
	"go.uber.org/zap"
)

type addRequest struct {
	Medicine  string `json:"medicine"`
	Time      string `json:"time"`
	Recurring *bool  `json:"recurring"`
}

type assistantRequest struct {
	Message string `json:"message"`
}

// Handler returns the HTTP API for the dashboard.
func (d *Dashboard) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reminders", d.listReminders)
		r.Post("/reminders", d.addReminder)
		r.Post("/reminders/{id}/taken", d.markTaken)
		r.Delete("/reminders/{id}", d.removeReminder)
		r.Get("/today", d.today)
		r.Get("/timeline", d.timeline)
		r.Get("/adherence", d.adherence)
		r.Get("/alert", d.currentAlert)
		r.Delete("/alert", d.dismissAlert)
		r.Post("/assistant", d.ask)
	})
	return r
}

func (d *Dashboard) listReminders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.store.Reminders())
}

func (d *Dashboard) addReminder(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Repeat Daily is ticked by default.
	recurring := true
	if req.Recurring != nil {
		recurring = *req.Recurring
	}

	reminders, err := d.store.Add(r.Context(), req.Medicine, req.Time, recurring)
	if errors.Is(err, reminder.ErrInvalidReminder) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		d.fail(w, r, "add reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, reminders)
}

func (d *Dashboard) markTaken(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := d.store.MarkTaken(r.Context(), id); err != nil {
		d.fail(w, r, "mark taken", err)
		return
	}
	writeJSON(w, http.StatusOK, d.store.Reminders())
}

func (d *Dashboard) removeReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := d.store.Remove(r.Context(), id); err != nil {
		d.fail(w, r, "remove reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) today(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Today())
}

func (d *Dashboard) timeline(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Timeline())
}

func (d *Dashboard) adherence(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.store.Adherence())
}

func (d *Dashboard) currentAlert(w http.ResponseWriter, _ *http.Request) {
	alert, ok := d.notifier.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (d *Dashboard) dismissAlert(w http.ResponseWriter, _ *http.Request) {
	d.notifier.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) ask(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	reply, err := d.assistant.Reply(r.Context(), req.Message)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "describe your symptom, e.g. \"I have a headache\"")
		return
	}
	if err != nil {
		d.fail(w, r, "assistant reply", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (d *Dashboard) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	d.logger.Error("dashboard: request failed",
		zap.String("op", op),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reminder id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
