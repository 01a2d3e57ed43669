package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type ServiceAPI interface {
	EmployeeReport(ctx context.Context) ([]EmployeeReport, error)
	AttendanceReport(ctx context.Context) ([]AttendanceReport, error)
	LeaveReport(ctx context.Context) ([]LeaveReport, error)
	EmployeesCSV(ctx context.Context) ([]byte, error)
	EmployeesXLSX(ctx context.Context) ([]byte, error)
	AttendanceChart(ctx context.Context) ([]byte, error)
	LeaveStatusChart(ctx context.Context) ([]byte, error)
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

func (h *Handler) Employees(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.EmployeeReport(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) Attendance(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AttendanceReport(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) Leaves(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.LeaveReport(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ExportEmployeesCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.EmployeesCSV(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeAttachment(w, CSVContentType, CSVFilename, data)
}

func (h *Handler) ExportEmployeesXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.EmployeesXLSX(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeAttachment(w, XLSXMIMEType, XLSXFilename, data)
}

func (h *Handler) AttendanceGraph(w http.ResponseWriter, r *http.Request) {
	png, err := h.Service.AttendanceChart(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writePNG(w, png)
}

func (h *Handler) LeaveStatusGraph(w http.ResponseWriter, r *http.Request) {
	png, err := h.Service.LeaveStatusChart(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writePNG(w, png)
}

func (h *Handler) writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write attachment", "filename", filename, "error", err)
	}
}

func (h *Handler) writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("failed to write chart", "error", err)
	}
}
