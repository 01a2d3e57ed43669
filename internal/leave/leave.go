package leave

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/leave"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Statuses lists the allowed statuses in display order.
func Statuses() []string {
	return []string{StatusPending, StatusApproved, StatusRejected}
}

type LeaveRequest struct {
	ID         int64
	EmployeeID int64
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     string
	CreatedAt  time.Time
}

type Response struct {
	ID        int64     `json:"id"`
	Employee  int64     `json:"employee"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *LeaveRequest) ToResponse() Response {
	return Response{
		ID:        l.ID,
		Employee:  l.EmployeeID,
		StartDate: l.StartDate.Format(validation.DateLayout),
		EndDate:   l.EndDate.Format(validation.DateLayout),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}

func ToResponses(list []*LeaveRequest) []Response {
	out := make([]Response, 0, len(list))
	for _, l := range list {
		out = append(out, l.ToResponse())
	}
	return out
}

func ToDataModel(l *LeaveRequest) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt,
	}
}

func FromDataModel(l *leaveDatamodel.LeaveRequest) *LeaveRequest {
	return &LeaveRequest{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt,
	}
}
