package memory

import "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"

var (
	_ repository.CompanyRepository  = (*CompanyRepository)(nil)
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.CustomerRepository = (*CustomerRepository)(nil)
	_ repository.LeadRepository     = (*LeadRepository)(nil)
	_ repository.ActivityRepository = (*ActivityRepository)(nil)
	_ repository.DealRepository     = (*DealRepository)(nil)
	_ repository.PaymentRepository  = (*PaymentRepository)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepository)(nil)
	_ repository.SequenceRepository = (*SequenceRepository)(nil)
)
