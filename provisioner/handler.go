package provisioner

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/provisioner/api"
	"github.com/shopfront/provisioner/metrics"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// RequestError provides structured error information for HTTP
// responses: an HTTP status code plus the underlying error.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Handler processes provisioning HTTP requests, translating the domain
// error taxonomy into HTTP statuses.
type Handler struct {
	prov *Provisioner
	log  *slog.Logger
}

// NewHandler creates an HTTP handler backed by the given provisioner.
func NewHandler(prov *Provisioner, log *slog.Logger) *Handler {
	return &Handler{prov: prov, log: log}
}

// RegisterRoutes mounts the provisioning endpoints. The root route is
// kept for callers of the historical API; /api/provision is the
// canonical path.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleProvision)
	r.Post("/api/provision", h.HandleProvision)
}

// HandleProvision provisions one tenant from a JSON request body.
//
// Responses:
//   - 200 text/plain: the owner login URL
//   - 409 application/json: the derived address is already provisioned
//   - 400: unparseable body, invalid identity or missing required field
//   - 500: settings validation or infrastructure failure
func (h *Handler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	metrics.IncProvisionAttempt()

	var req api.ProvisionRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.log.Warn("Failed to parse provisioning request", "err", err)
		metrics.IncProvisionFailure()
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	loginURL, err := h.prov.Provision(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	metrics.IncProvisionSuccess()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, loginURL)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var dup *api.DuplicateSiteError
	if errors.As(err, &dup) {
		metrics.IncProvisionDuplicate()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(api.DuplicateSiteResponse{
			Message: fmt.Sprintf("Site %s already exists", dup.Address),
		})
		return
	}

	metrics.IncProvisionFailure()
	reqErr := classify(err)
	h.log.Error("Provisioning failed", "err", err, slog.Int("status", reqErr.StatusCode))
	http.Error(w, reqErr.Error(), reqErr.StatusCode)
}

// classify maps domain errors onto HTTP statuses. Identity and payload
// problems are the caller's fault; everything else is ours.
func classify(err error) *RequestError {
	var missing *api.MissingFieldError
	switch {
	case errors.Is(err, api.ErrInvalidIdentity):
		return &RequestError{StatusCode: http.StatusBadRequest, Err: err}
	case errors.As(err, &missing):
		return &RequestError{StatusCode: http.StatusBadRequest, Err: err}
	default:
		return &RequestError{StatusCode: http.StatusInternalServerError, Err: err}
	}
}
