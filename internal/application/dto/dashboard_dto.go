package dto

import "time"

// DashboardDTO respuesta de GET /api/reports/dashboard.
type DashboardDTO struct {
	TotalLeads        int `json:"total_leads"`
	NewLeadsThisMonth int `json:"new_leads_this_month"`
	TotalCustomers    int `json:"total_customers"`
	ActivitiesToday   int `json:"activities_today"`
	OverdueActivities int `json:"overdue_activities"`
}

// MonthlyCountDTO conteo de un mes calendario ("2026-03").
type MonthlyCountDTO struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// SalesPerformanceDTO respuesta de GET /api/reports/sales-performance.
// Monthly cubre los 12 meses calendario hasta el actual, en orden cronológico.
type SalesPerformanceDTO struct {
	TotalLeads     int               `json:"total_leads"`
	ClosedLeads    int               `json:"closed_leads"`
	ConversionRate int               `json:"conversion_rate"`
	Monthly        []MonthlyCountDTO `json:"monthly"`
}

// EmployeeProductivityDTO fila de GET /api/reports/employee-productivity.
type EmployeeProductivityDTO struct {
	UserID              string `json:"user_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	LeadsAssigned       int    `json:"leads_assigned"`
	LeadsConverted      int    `json:"leads_converted"`
	ConversionRate      int    `json:"conversion_rate"`
	ActivitiesTotal     int    `json:"activities_total"`
	ActivitiesCompleted int    `json:"activities_completed"`
	CompletionRate      int    `json:"completion_rate"`
}

// OverdueGroupDTO actividades vencidas de un responsable.
type OverdueGroupDTO struct {
	AssigneeID   string             `json:"assignee_id"`
	AssigneeName string             `json:"assignee_name"`
	Count        int                `json:"count"`
	Oldest       time.Time          `json:"oldest_scheduled_at"`
	Activities   []ActivityResponse `json:"activities"`
}

// LeadSourceDTO fila de GET /api/reports/lead-sources.
type LeadSourceDTO struct {
	Source         string `json:"source"`
	Total          int    `json:"total"`
	Converted      int    `json:"converted"`
	ConversionRate int    `json:"conversion_rate"`
}
