package dto

import "time"

// CreateLeadRequest body para POST /api/leads. assignee_id se ignora para EMPLOYEE.
type CreateLeadRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" validate:"omitempty,max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Organization string `json:"organization" validate:"omitempty,max=200"`
	Status       string `json:"status" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED NEGOTIATION CLOSED_LEAD WON UNQUALIFIED"`
	Source       string `json:"source" validate:"required,oneof=WEBSITE REFERRAL COLD_CALL SOCIAL_MEDIA EMAIL_CAMPAIGN TENDER_PORTAL OTHER"`
	AssigneeID   string `json:"assignee_id" validate:"omitempty,uuid"`
}

// UpdateLeadRequest actualización parcial de un lead.
type UpdateLeadRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=200"`
	Source       *string `json:"source,omitempty" validate:"omitempty,oneof=WEBSITE REFERRAL COLD_CALL SOCIAL_MEDIA EMAIL_CAMPAIGN TENDER_PORTAL OTHER"`
	AssigneeID   *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateLeadStatusRequest body de PATCH /api/leads/:id/status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED QUALIFIED NEGOTIATION CLOSED_LEAD WON UNQUALIFIED"`
}

// LeadListQuery filtros de GET /api/leads.
type LeadListQuery struct {
	Status     string `query:"status"`
	Source     string `query:"source"`
	AssigneeID string `query:"assignee_id"`
	Search     string `query:"search"`
	PageRequest
}

// LeadResponse lead en respuestas.
type LeadResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ContactName  string     `json:"contact_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Organization string     `json:"organization,omitempty"`
	Status       string     `json:"status"`
	Source       string     `json:"source"`
	AssigneeID   string     `json:"assignee_id"`
	ConvertedAt  *time.Time `json:"converted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateActivityRequest body para POST /api/activities.
type CreateActivityRequest struct {
	Type        string  `json:"type" validate:"required,oneof=CALL MEETING EMAIL FOLLOW_UP TASK"`
	Subject     string  `json:"subject" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ScheduledAt string  `json:"scheduled_at" validate:"required"`
	LeadID      *string `json:"lead_id,omitempty" validate:"omitempty,uuid"`
	AssigneeID  string  `json:"assignee_id" validate:"omitempty,uuid"`
}

// ActivityListQuery filtros de GET /api/activities (ventana sobre scheduled_at).
type ActivityListQuery struct {
	Status     string `query:"status"`
	AssigneeID string `query:"assignee_id"`
	LeadID     string `query:"lead_id"`
	Overdue    bool   `query:"overdue"`
	DateRangeQuery
	PageRequest
}

// ActivityResponse actividad en respuestas.
type ActivityResponse struct {
	ID          string     `json:"id"`
	AssigneeID  string     `json:"assignee_id"`
	LeadID      *string    `json:"lead_id,omitempty"`
	Type        string     `json:"type"`
	Subject     string     `json:"subject"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
