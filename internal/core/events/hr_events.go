package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeOnboarded      = "employee.onboarded"
	EventTypeEmployeeDeleted        = "employee.deleted"
	EventTypeAttendanceClockedIn    = "attendance.clocked_in"
	EventTypeAttendanceClockedOut   = "attendance.clocked_out"
	EventTypeLeaveRequested         = "leave.requested"
	EventTypeLeaveStatusChanged     = "leave.status_changed"
	EventTypeUserCreated            = "user.created"
	EventTypePasswordResetRequested = "user.password_reset_requested"
	EventTypeDeviceLoggedOut        = "auth.device_logged_out"
)

// NewBaseEvent stamps a new event with a uuid and the current UTC time.
func NewBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewEmployeeOnboardedEvent(id int64, employeeID, fullName, email string) BaseEvent {
	return NewBaseEvent(EventTypeEmployeeOnboarded, map[string]interface{}{
		"id":          id,
		"employee_id": employeeID,
		"full_name":   fullName,
		"email":       email,
	})
}

func NewEmployeeDeletedEvent(id int64) BaseEvent {
	return NewBaseEvent(EventTypeEmployeeDeleted, map[string]interface{}{
		"id": id,
	})
}

func NewAttendanceClockedInEvent(logID, employeeID int64, at time.Time) BaseEvent {
	return NewBaseEvent(EventTypeAttendanceClockedIn, map[string]interface{}{
		"attendance_id": logID,
		"employee":      employeeID,
		"clock_in_time": at,
	})
}

func NewAttendanceClockedOutEvent(logID, employeeID int64, at time.Time, worked time.Duration) BaseEvent {
	return NewBaseEvent(EventTypeAttendanceClockedOut, map[string]interface{}{
		"attendance_id":    logID,
		"employee":         employeeID,
		"clock_out_time":   at,
		"duration_seconds": int64(worked.Seconds()),
	})
}

func NewLeaveRequestedEvent(id, employeeID int64, startDate, endDate string) BaseEvent {
	return NewBaseEvent(EventTypeLeaveRequested, map[string]interface{}{
		"leave_request_id": id,
		"employee":         employeeID,
		"start_date":       startDate,
		"end_date":         endDate,
	})
}

func NewLeaveStatusChangedEvent(id, employeeID int64, from, to string) BaseEvent {
	return NewBaseEvent(EventTypeLeaveStatusChanged, map[string]interface{}{
		"leave_request_id": id,
		"employee":         employeeID,
		"from":             from,
		"to":               to,
	})
}

func NewUserCreatedEvent(userID int64, username, role string) BaseEvent {
	return NewBaseEvent(EventTypeUserCreated, map[string]interface{}{
		"user_id":  userID,
		"username": username,
		"role":     role,
	})
}

func NewPasswordResetRequestedEvent(userID int64) BaseEvent {
	return NewBaseEvent(EventTypePasswordResetRequested, map[string]interface{}{
		"user_id": userID,
	})
}

func NewDeviceLoggedOutEvent(userID, deviceID int64) BaseEvent {
	return NewBaseEvent(EventTypeDeviceLoggedOut, map[string]interface{}{
		"user_id":   userID,
		"device_id": deviceID,
	})
}
