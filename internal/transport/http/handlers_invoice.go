package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinica/internal/invoice"
	"clinica/pkg/domain"
	"clinica/pkg/platform/httputil"
)

// InvoiceHandler wires invoice endpoints to the invoice service.
type InvoiceHandler struct {
	service *invoice.Service
	logger  *slog.Logger
}

func NewInvoiceHandler(service *invoice.Service, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, logger: logger}
}

// Register mounts invoice endpoints on the router.
func (h *InvoiceHandler) Register(r chi.Router) {
	r.Post("/invoices", h.handleCreate)
	r.Get("/invoices/{invoiceID}", h.handleGet)
	r.Put("/invoices/{invoiceID}/status", h.handleUpdateStatus)
	r.Get("/operations/{operationID}/invoices", h.handleListByOperation)
}

type createInvoiceRequest struct {
	OperationID string       `json:"operation_id"`
	Amount      domain.Money `json:"amount"`
}

func (h *InvoiceHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[createInvoiceRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	operationID, err := domain.ParseOperationID(req.OperationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), invoice.CreateRequest{
		OperationID: operationID,
		Amount:      req.Amount,
	})
	if err != nil {
		h.logError(r, "invoice creation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *InvoiceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInvoiceID(chi.URLParam(r, "invoiceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *InvoiceHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInvoiceID(chi.URLParam(r, "invoiceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.Decode[updateStatusRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := invoice.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	inv, err := h.service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.logError(r, "invoice status update failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) handleListByOperation(w http.ResponseWriter, r *http.Request) {
	operationID, err := domain.ParseOperationID(chi.URLParam(r, "operationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	invoices, err := h.service.ListByOperation(r.Context(), operationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
