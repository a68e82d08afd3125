package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/config"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/export"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/invoice"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/observability"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/project"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

const maxBodyBytes = 1 << 20

// JobRequest is the body of /api/quote and /api/invoice. The job fields are
// those of a job file; Params replaces the named Profile when both are set.
type JobRequest struct {
	slicer.JobFile
	Profile string               `json:"profile,omitempty"`
	Params  *model.JobParameters `json:"params,omitempty"`
}

func (j JobRequest) input() invoice.Input {
	stats, presets := j.JobFile.Statistics()
	return invoice.Input{Stats: stats, Presets: presets, Profile: j.Profile, Params: j.Params}
}

// Handler serves the API.
type Handler struct {
	svc           *invoice.Service
	defaultFormat string
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(svc *invoice.Service, invoiceCfg *config.InvoiceConfig) *Handler {
	format := export.FormatSpreadsheetML
	if invoiceCfg != nil && invoiceCfg.DefaultFormat != "" {
		format = invoiceCfg.DefaultFormat
	}
	return &Handler{svc: svc, defaultFormat: format}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, project.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrEmptyProfileName),
		errors.Is(err, project.ErrInvalidProfileName),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrNothingToExport):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrNonFiniteAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeJob(w http.ResponseWriter, r *http.Request) (JobRequest, bool) {
	var req JobRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return JobRequest{}, false
	}
	return req, true
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleQuote prices a job and returns the breakdown as JSON.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}

	q, err := h.svc.Quote(r.Context(), req.input())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// HandleInvoice prices a job and returns the rendered document. The format
// comes from the "format" query parameter.
func (h *Handler) HandleInvoice(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJob(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.defaultFormat
	}

	data, mime, report, err := h.svc.Render(r.Context(), req.input(), format)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Invoice-Id", report.InvoiceID)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.InvoiceID+"."+extension(format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		observability.FromContext(r.Context()).Warn("failed to write invoice", zap.Error(err))
	}
}

func extension(format string) string {
	if format == "xml" {
		return export.FormatSpreadsheetML
	}
	return format
}

// HandleListProfiles returns the registered profile names.
func (h *Handler) HandleListProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"profiles": h.svc.Profiles().List()})
}

// HandleGetProfile returns one profile's parameters.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	params, err := h.svc.Profiles().Get(name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

// HandlePutProfile saves the body as the named profile.
func (h *Handler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := observability.WithProfile(r.Context(), name)

	params := model.DefaultJobParameters()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.svc.Profiles().Save(name, params); err != nil {
		observability.FromContext(ctx).Error("profile save failed", zap.Error(err))
		writeError(w, statusFor(err), err)
		return
	}
	observability.FromContext(ctx).Info("profile saved")
	writeJSON(w, http.StatusOK, params)
}

// HandleDeleteProfile removes the named profile.
func (h *Handler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := observability.WithProfile(r.Context(), name)

	if !h.svc.Profiles().Exists(name) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %q", project.ErrProfileNotFound, name))
		return
	}
	if err := h.svc.Profiles().Delete(name); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	observability.FromContext(ctx).Info("profile deleted")
	w.WriteHeader(http.StatusNoContent)
}
