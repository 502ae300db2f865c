package httptransport

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinica/internal/operation"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/httputil"
)

// OperationHandler wires operation endpoints to the operation service.
type OperationHandler struct {
	service *operation.Service
	logger  *slog.Logger
}

func NewOperationHandler(service *operation.Service, logger *slog.Logger) *OperationHandler {
	return &OperationHandler{service: service, logger: logger}
}

// Register mounts operation endpoints on the router.
func (h *OperationHandler) Register(r chi.Router) {
	r.Post("/operations", h.handleCreate)
	r.Get("/operations/{operationID}", h.handleGet)
	r.Get("/patients/{patientID}/operations", h.handleListByPatient)
	r.Post("/operations/{operationID}/notes", h.handleAddNote)
	r.Post("/operations/{operationID}/assets", h.handleAddAsset)
	r.Get("/assets", h.handleGetAsset)
}

type createOperationRequest struct {
	PatientID     string                  `json:"patient_id"`
	Type          string                  `json:"type"`
	Description   string                  `json:"description,omitempty"`
	Executor      string                  `json:"executor,omitempty"`
	EstimatedCost domain.Money            `json:"estimated_cost"`
	Details       []operation.ToothDetail `json:"details,omitempty"`
}

func (h *OperationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[createOperationRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patientID, err := domain.ParsePatientID(req.PatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	typeCode, err := domain.ParseTypeCode(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), operation.CreateRequest{
		PatientID:     patientID,
		Type:          typeCode,
		Description:   req.Description,
		Executor:      req.Executor,
		EstimatedCost: req.EstimatedCost,
		Details:       req.Details,
	})
	if err != nil {
		h.logError(r, "operation creation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *OperationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOperationID(chi.URLParam(r, "operationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	op, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, op)
}

func (h *OperationHandler) handleListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := domain.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ops, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ops)
}

type addNoteRequest struct {
	Text string `json:"text"`
}

func (h *OperationHandler) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOperationID(chi.URLParam(r, "operationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.Decode[addNoteRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	op, err := h.service.AddNote(r.Context(), id, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, op)
}

// handleAddAsset streams the raw request body into object storage under the
// key given by the "key" query parameter, then appends that key to the
// operation.
func (h *OperationHandler) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOperationID(chi.URLParam(r, "operationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "query parameter 'key' is required"))
		return
	}

	op, err := h.service.AddAsset(r.Context(), id, operation.AddAssetRequest{
		Key:           key,
		ContentLength: r.ContentLength,
		ContentType:   r.Header.Get("Content-Type"),
		Body:          r.Body,
	})
	if err != nil {
		h.logError(r, "asset upload failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, op)
}

func (h *OperationHandler) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "query parameter 'key' is required"))
		return
	}
	rc, err := h.service.GetAsset(r.Context(), key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}

func (h *OperationHandler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
