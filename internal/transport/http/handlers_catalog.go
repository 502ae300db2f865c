package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinica/internal/operationtype"
	"clinica/pkg/domain"
	"clinica/pkg/platform/httputil"
)

// CatalogHandler wires the operation-type catalog endpoints.
type CatalogHandler struct {
	service *operationtype.Service
	logger  *slog.Logger
}

func NewCatalogHandler(service *operationtype.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router. PUT upserts by code,
// POST is insert-only.
func (h *CatalogHandler) Register(r chi.Router) {
	r.Put("/operation-types", h.handleSave)
	r.Post("/operation-types", h.handleRegister)
	r.Get("/operation-types", h.handleList)
}

type operationTypeRequest struct {
	Code        string       `json:"code"`
	Description string       `json:"description"`
	BaseCost    domain.Money `json:"base_cost"`
}

func (h *CatalogHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	ot, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	saved, err := h.service.Save(r.Context(), ot)
	if err != nil {
		h.logError(r, "catalog save failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *CatalogHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ot, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	saved, err := h.service.Register(r.Context(), ot)
	if err != nil {
		h.logError(r, "catalog registration failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.List(r.Context())
	if err != nil {
		h.logError(r, "catalog listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}

func (h *CatalogHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (*operationtype.OperationType, bool) {
	req, err := httputil.Decode[operationTypeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	ot, err := operationtype.New(req.Code, req.Description, req.BaseCost)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return ot, true
}

func (h *CatalogHandler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
