package dto

import "github.com/shopspring/decimal"

// LeaderboardEntryDTO métricas de un usuario en el leaderboard.
// Rank es 0 si el usuario no participa en el ranking global (SUPER_ADMIN).
type LeaderboardEntryDTO struct {
	Rank                   int             `json:"rank,omitempty"`
	UserID                 string          `json:"user_id"`
	Name                   string          `json:"name"`
	Email                  string          `json:"email"`
	Role                   string          `json:"role"`
	RevenueClosed          decimal.Decimal `json:"revenue_closed"`
	DealsWon               int             `json:"deals_won"`
	ActivitiesCompleted    int             `json:"activities_completed"`
	TotalActivities        int             `json:"total_activities"`
	FollowUpCompletionRate int             `json:"follow_up_completion_rate"`
	LeadsAssigned          int             `json:"leads_assigned"`
	LeadsConverted         int             `json:"leads_converted"`
	LeadConversionRate     int             `json:"lead_conversion_rate"`
}

// LeaderboardResponse ranking con la ventana aplicada.
type LeaderboardResponse struct {
	StartDate string                `json:"start_date,omitempty"`
	EndDate   string                `json:"end_date,omitempty"`
	Entries   []LeaderboardEntryDTO `json:"entries"`
}

// LeaderboardQuery query de GET /api/leaderboard*. ManagerID solo aplica a /team
// cuando consulta un SUPER_ADMIN.
type LeaderboardQuery struct {
	DateRangeQuery
	ManagerID string `query:"manager_id"`
}
