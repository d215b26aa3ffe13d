package entity

import "time"

// LeadStatus estado del lead.
type LeadStatus string

const (
	LeadNew         LeadStatus = "NEW"
	LeadContacted   LeadStatus = "CONTACTED"
	LeadQualified   LeadStatus = "QUALIFIED"
	LeadNegotiation LeadStatus = "NEGOTIATION"
	LeadClosed      LeadStatus = "CLOSED_LEAD"
	LeadWon         LeadStatus = "WON"
	LeadUnqualified LeadStatus = "UNQUALIFIED"
)

// LeadStatuses todos los estados válidos.
var LeadStatuses = []LeadStatus{
	LeadNew, LeadContacted, LeadQualified, LeadNegotiation, LeadClosed, LeadWon, LeadUnqualified,
}

// ConvertedLeadStatuses estados que cuentan como lead convertido en reportes y leaderboard.
var ConvertedLeadStatuses = []LeadStatus{LeadClosed, LeadWon}

// Valid indica si el estado existe.
func (s LeadStatus) Valid() bool {
	for _, st := range LeadStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsConverted indica si el lead se cerró con éxito.
func (s LeadStatus) IsConverted() bool {
	return s == LeadClosed || s == LeadWon
}

// LeadSource origen del lead.
type LeadSource string

const (
	SourceWebsite       LeadSource = "WEBSITE"
	SourceReferral      LeadSource = "REFERRAL"
	SourceColdCall      LeadSource = "COLD_CALL"
	SourceSocialMedia   LeadSource = "SOCIAL_MEDIA"
	SourceEmailCampaign LeadSource = "EMAIL_CAMPAIGN"
	SourceTenderPortal  LeadSource = "TENDER_PORTAL"
	SourceOther         LeadSource = "OTHER"
)

// Valid indica si el origen existe.
func (s LeadSource) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceColdCall, SourceSocialMedia,
		SourceEmailCampaign, SourceTenderPortal, SourceOther:
		return true
	}
	return false
}

// Lead contacto comercial asignado a un usuario.
type Lead struct {
	ID           string
	CompanyID    string
	Title        string
	ContactName  string
	Email        string
	Phone        string
	Organization string
	Status       LeadStatus
	Source       LeadSource
	AssigneeID   string
	ConvertedAt  *time.Time // se fija al pasar a CLOSED_LEAD o WON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
