package entity

import "time"

// ActivityStatus estado de una actividad de seguimiento.
type ActivityStatus string

const (
	ActivityScheduled ActivityStatus = "SCHEDULED"
	ActivityCompleted ActivityStatus = "COMPLETED"
	ActivityCancelled ActivityStatus = "CANCELLED"
	ActivityOverdue   ActivityStatus = "OVERDUE"
)

// ActivityType tipo de actividad.
type ActivityType string

const (
	ActivityCall     ActivityType = "CALL"
	ActivityMeeting  ActivityType = "MEETING"
	ActivityEmail    ActivityType = "EMAIL"
	ActivityFollowUp ActivityType = "FOLLOW_UP"
	ActivityTask     ActivityType = "TASK"
)

// Valid indica si el tipo existe.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityMeeting, ActivityEmail, ActivityFollowUp, ActivityTask:
		return true
	}
	return false
}

// Activity llamada, reunión o seguimiento asignado a un usuario.
type Activity struct {
	ID          string
	CompanyID   string
	AssigneeID  string
	LeadID      *string
	Type        ActivityType
	Subject     string
	Description string
	Status      ActivityStatus
	ScheduledAt time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue: marcada OVERDUE, o SCHEDULED con fecha anterior a now.
func (a *Activity) IsOverdue(now time.Time) bool {
	if a.Status == ActivityOverdue {
		return true
	}
	return a.Status == ActivityScheduled && a.ScheduledAt.Before(now)
}
