package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinica/internal/patient"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/httputil"
)

// birthDateFormat is the wire format for dates of birth.
const birthDateFormat = "2006-01-02"

// PatientHandler wires patient endpoints to the patient service.
type PatientHandler struct {
	service *patient.Service
	logger  *slog.Logger
}

func NewPatientHandler(service *patient.Service, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{service: service, logger: logger}
}

// Register mounts patient endpoints on the router.
func (h *PatientHandler) Register(r chi.Router) {
	r.Post("/patients", h.handleCreate)
	r.Get("/patients", h.handleSearch)
	r.Get("/patients/{patientID}", h.handleGet)
}

type createPatientRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	BirthDate      string `json:"birth_date"`
	TaxCode        string `json:"tax_code,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

func (h *PatientHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[createPatientRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	birthDate, err := time.Parse(birthDateFormat, req.BirthDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "birth_date must be YYYY-MM-DD"))
		return
	}

	created, err := h.service.Create(r.Context(), patient.CreateRequest{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Nationality:    req.Nationality,
		BirthDate:      birthDate,
		TaxCode:        req.TaxCode,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		h.logError(r, "patient creation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *PatientHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *PatientHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logError(r, "patient search failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *PatientHandler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
