// Package seed puebla una empresa de demostración a través de los casos de uso,
// de modo que los datos respetan las mismas reglas que la API.
//
// Estructura creada:
//
//	SUPER_ADMIN admin@<dominio>
//	MANAGER     manager@<dominio>
//	  EMPLOYEE  priya@<dominio>
//	  EMPLOYEE  rahul@<dominio>
//	EMPLOYEE    kiran@<dominio> (sin manager)
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/auth"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/usecase"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// UseCases casos de uso que necesita el seeder.
type UseCases struct {
	Auth       *auth.AuthUseCase
	Users      *usecase.UserUseCase
	Leads      *crm.LeadUseCase
	Activities *crm.ActivityUseCase
	Customers  *billing.CustomerUseCase
	Deals      *sales.DealUseCase
	Payments   *billing.PaymentUseCase
	Invoices   *billing.InvoiceUseCase
}

// Options parámetros de la empresa demo.
type Options struct {
	CompanyName string
	Domain      string // dominio de los emails, p.ej. "demo.growtenders.in"
	Password    string
}

// Result credenciales creadas.
type Result struct {
	CompanyID string
	Users     map[string]string // email -> rol
}

// Run crea la empresa demo. Si el admin ya existe devuelve ErrEmailAlreadyExists sin tocar nada.
func Run(ctx context.Context, uc UseCases, opts Options) (*Result, error) {
	log := zerolog.Ctx(ctx)
	reg, err := uc.Auth.RegisterCompany(ctx, dto.RegisterCompanyRequest{
		CompanyName:  opts.CompanyName,
		GSTIN:        "27AAPFU0939F1ZV",
		Address:      "Andheri East, Mumbai 400069",
		Phone:        "+91 22 4000 1234",
		CompanyEmail: "billing@" + opts.Domain,
		AdminName:    "Demo Admin",
		Email:        "admin@" + opts.Domain,
		Password:     opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("registrar empresa: %w", err)
	}
	res := &Result{CompanyID: reg.User.CompanyID, Users: map[string]string{reg.User.Email: reg.User.Role}}
	admin := actorOf(reg.User)

	newUser := func(name, local string, role entity.Role, managerID *string) (scope.Actor, error) {
		u, err := uc.Users.Create(ctx, admin, dto.CreateUserRequest{
			Email: local + "@" + opts.Domain, Password: opts.Password, Name: name,
			Role: string(role), ManagerID: managerID,
		})
		if err != nil {
			return scope.Actor{}, fmt.Errorf("crear usuario %s: %w", local, err)
		}
		res.Users[u.Email] = u.Role
		return actorOf(*u), nil
	}

	manager, err := newUser("Meera Shah", "manager", entity.RoleManager, nil)
	if err != nil {
		return nil, err
	}
	priya, err := newUser("Priya Nair", "priya", entity.RoleEmployee, &manager.UserID)
	if err != nil {
		return nil, err
	}
	rahul, err := newUser("Rahul Verma", "rahul", entity.RoleEmployee, &manager.UserID)
	if err != nil {
		return nil, err
	}
	kiran, err := newUser("Kiran Rao", "kiran", entity.RoleEmployee, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, e := range []struct {
		actor  scope.Actor
		prefix string
		won    []int64
		open   []int64
		leads  []string // estados
	}{
		{priya, "PN", []int64{100, 200}, []int64{450}, []string{"NEW", "QUALIFIED", "WON"}},
		{rahul, "RV", []int64{350}, []int64{120, 80}, []string{"CONTACTED", "CLOSED_LEAD", "UNQUALIFIED"}},
		{kiran, "KR", nil, []int64{60}, []string{"NEW", "NEGOTIATION"}},
		{manager, "MS", []int64{500}, nil, []string{"WON"}},
	} {
		if err := seedPortfolio(ctx, uc, e.actor, e.prefix, e.won, e.open, e.leads, now); err != nil {
			return nil, err
		}
	}

	log.Info().Str("company_id", res.CompanyID).Int("users", len(res.Users)).Msg("empresa demo creada")
	return res, nil
}

var leadSources = []string{"WEBSITE", "REFERRAL", "TENDER_PORTAL", "COLD_CALL", "EMAIL_CAMPAIGN"}

func seedPortfolio(ctx context.Context, uc UseCases, actor scope.Actor, prefix string, won, open []int64, leadStatuses []string, now time.Time) error {
	customer, err := uc.Customers.Create(ctx, actor, dto.CreateCustomerRequest{
		Name:    prefix + " Infra Projects Pvt Ltd",
		Email:   "accounts@" + prefix + "-infra.example",
		Address: "Pune, Maharashtra",
	})
	if err != nil {
		return fmt.Errorf("cliente %s: %w", prefix, err)
	}

	for i, status := range leadStatuses {
		lead, err := uc.Leads.Create(ctx, actor, dto.CreateLeadRequest{
			Title:        fmt.Sprintf("%s tender lead %d", prefix, i+1),
			ContactName:  "Procurement Cell",
			Organization: "Municipal Corporation",
			Source:       leadSources[i%len(leadSources)],
		})
		if err != nil {
			return fmt.Errorf("lead %s-%d: %w", prefix, i+1, err)
		}
		if status != "NEW" {
			if _, err := uc.Leads.UpdateStatus(ctx, actor, lead.ID, status); err != nil {
				return fmt.Errorf("estado lead %s-%d: %w", prefix, i+1, err)
			}
		}
		// una actividad completada y una vencida por lead
		leadID := lead.ID
		done, err := uc.Activities.Create(ctx, actor, dto.CreateActivityRequest{
			Type: "CALL", Subject: "Intro call", LeadID: &leadID,
			ScheduledAt: now.Add(-72 * time.Hour).Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("actividad %s-%d: %w", prefix, i+1, err)
		}
		if _, err := uc.Activities.Complete(ctx, actor, done.ID); err != nil {
			return err
		}
		if _, err := uc.Activities.Create(ctx, actor, dto.CreateActivityRequest{
			Type: "FOLLOW_UP", Subject: "Send revised quotation", LeadID: &leadID,
			ScheduledAt: now.Add(-24 * time.Hour).Format(time.RFC3339),
		}); err != nil {
			return fmt.Errorf("follow-up %s-%d: %w", prefix, i+1, err)
		}
	}

	customerID := customer.ID
	for i, v := range won {
		if _, err := uc.Deals.Create(ctx, actor, dto.CreateDealRequest{
			Title: fmt.Sprintf("%s won deal %d", prefix, i+1), Value: decimal.NewFromInt(v * 1000),
			Stage: string(entity.StageClosedWon), CustomerID: &customerID,
		}); err != nil {
			return fmt.Errorf("deal ganado %s-%d: %w", prefix, i+1, err)
		}
	}
	for i, v := range open {
		if _, err := uc.Deals.Create(ctx, actor, dto.CreateDealRequest{
			Title: fmt.Sprintf("%s pipeline deal %d", prefix, i+1), Value: decimal.NewFromInt(v * 1000),
			Stage:             string(entity.StageProposal),
			CustomerID:        &customerID,
			ExpectedCloseDate: now.AddDate(0, 1, 0).Format("2006-01-02"),
		}); err != nil {
			return fmt.Errorf("deal abierto %s-%d: %w", prefix, i+1, err)
		}
	}

	inv, err := uc.Invoices.Create(ctx, actor, dto.CreateInvoiceRequest{
		CustomerID: customerID,
		GSTType:    string(entity.WithGST),
		DueDate:    now.AddDate(0, 0, 30).Format("2006-01-02"),
		Items: []dto.InvoiceItemRequest{
			{Description: "Tender documentation support", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(25000)},
			{Description: "Bid submission (per portal)", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(4500)},
		},
	})
	if err != nil {
		return fmt.Errorf("factura %s: %w", prefix, err)
	}
	invoiceID := inv.ID
	if _, err := uc.Payments.Create(ctx, actor, dto.CreatePaymentRequest{
		ReferenceType: string(entity.ReferenceInternal),
		CustomerID:    &customerID,
		Amount:        decimal.NewFromInt(20000),
		GSTType:       string(entity.WithGST),
		PaymentMethod: string(entity.MethodBankTransfer),
		InvoiceID:     &invoiceID,
	}); err != nil {
		return fmt.Errorf("pago %s: %w", prefix, err)
	}
	return nil
}

func actorOf(u dto.UserResponse) scope.Actor {
	a := scope.Actor{UserID: u.ID, CompanyID: u.CompanyID, Role: entity.Role(u.Role)}
	if u.ManagerID != nil {
		a.ManagerID = *u.ManagerID
	}
	return a
}
