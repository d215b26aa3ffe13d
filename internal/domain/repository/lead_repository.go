package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// LeadFilter filtros de listado/conteo. Scope se aplica sobre assignee_id;
// Created filtra por created_at y Converted por converted_at.
type LeadFilter struct {
	Scope         scope.Scope
	Statuses      []entity.LeadStatus
	Source        entity.LeadSource
	Search        string
	Created       DateRange
	Converted     DateRange
	ConvertedOnly bool
	Page
}

// AssigneeLeadStats leads asignados y convertidos por usuario.
type AssigneeLeadStats struct {
	AssigneeID string
	Assigned   int
	Converted  int
}

// SourceLeadStats leads totales y convertidos por origen.
type SourceLeadStats struct {
	Source    entity.LeadSource
	Total     int
	Converted int
}

// MonthCount conteo por mes calendario ("2026-03").
type MonthCount struct {
	Month string
	Count int
}

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	List(ctx context.Context, companyID string, filter LeadFilter) ([]*entity.Lead, error)
	Count(ctx context.Context, companyID string, filter LeadFilter) (int, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, companyID, id string) error

	// StatsByAssignee agrupa por assignee los leads creados en la ventana.
	StatsByAssignee(ctx context.Context, companyID string, filter LeadFilter) ([]AssigneeLeadStats, error)
	// StatsBySource agrupa por origen.
	StatsBySource(ctx context.Context, companyID string, filter LeadFilter) ([]SourceLeadStats, error)
	// ConvertedByMonth cuenta conversiones por mes de converted_at.
	ConvertedByMonth(ctx context.Context, companyID string, filter LeadFilter) ([]MonthCount, error)
}
