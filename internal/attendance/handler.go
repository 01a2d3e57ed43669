package attendance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Attendance, error)
	GetByID(ctx context.Context, id int64) (*Attendance, error)
	Create(ctx context.Context, dto AttendanceDTO) (*Attendance, error)
	Update(ctx context.Context, id int64, dto AttendanceDTO) (*Attendance, error)
	ClockOut(ctx context.Context, id int64) (*Attendance, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponses(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto AttendanceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a.ToResponse())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto AttendanceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a.ToResponse())
}

// ClockOut handles POST /api/attendance/logs/{id}/clock-out/
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.ClockOut(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a.ToResponse())
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
