package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, dto EmployeeDTO) (*Employee, error)
	Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// List handles GET /api/onboarding/employees/
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponses(list))
}

// Create handles POST /api/onboarding/employees/
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e.ToResponse())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	e, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
