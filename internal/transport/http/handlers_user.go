package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinica/internal/user"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/httputil"
)

// UserHandler wires staff-record endpoints to the user service.
type UserHandler struct {
	service *user.Service
	logger  *slog.Logger
}

func NewUserHandler(service *user.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// Register mounts user endpoints on the router.
func (h *UserHandler) Register(r chi.Router) {
	r.Post("/users", h.handleCreate)
	r.Get("/users", h.handleSearch)
	r.Get("/users/{userID}", h.handleGet)
}

type createUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date"`
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[createUserRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	birthDate, err := time.Parse(birthDateFormat, req.BirthDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "birth_date must be YYYY-MM-DD"))
		return
	}

	created, err := h.service.Create(r.Context(), user.CreateRequest{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: birthDate,
	})
	if err != nil {
		h.logError(r, "user creation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logError(r, "user search failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *UserHandler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
