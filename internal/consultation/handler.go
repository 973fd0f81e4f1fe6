package consultation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"minidxo/internal/logging"
	"minidxo/internal/platform/web"
)

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, log: logging.New("archive")}
}

type ArchiveResponse struct {
	ConsultationID string `json:"consultation_id"`
}

func (h *Handler) ArchiveConsultation(w http.ResponseWriter, r *http.Request) {
	var req Consultation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	c, err := h.svc.Archive(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotConcluded) {
			web.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		web.Error(w, http.StatusInternalServerError, "Failed to archive consultation")
		return
	}

	web.JSON(w, http.StatusCreated, ArchiveResponse{ConsultationID: c.ID.String()})
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, c)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	pdf, err := h.svc.Report(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report_`+id.String()+`.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		h.log.Warn("write report", "consultation", id, "err", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid consultation ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		web.Error(w, http.StatusNotFound, err.Error())
		return
	}
	web.Error(w, http.StatusInternalServerError, "Processing failed: "+err.Error())
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/consultations", h.ArchiveConsultation)
	r.Get("/consultations/{id}", h.GetConsultation)
	r.Get("/consultations/{id}/report", h.GetReport)
}
