package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/docrender"
	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/repository"
)

const dateFormat = "02 Jan 2006"

// InvoiceData is the flat payload handed to the renderer's invoice template.
type InvoiceData struct {
	InvoiceNumber string            `json:"invoice_number"`
	BookingCode   string            `json:"booking_code"`
	IssuedDate    string            `json:"issued_date"`
	TenantName    string            `json:"tenant_name"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	VehicleLabel  string            `json:"vehicle_label"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	Duration      string            `json:"duration"`
	Currency      string            `json:"currency"`
	Lines         []DocumentLine    `json:"lines"`
	NetTotal      string            `json:"net_total"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// AgreementData is the flat payload for the rental agreement template.
type AgreementData struct {
	Reference      string `json:"reference"`
	BookingCode    string `json:"booking_code"`
	TenantName     string `json:"tenant_name"`
	CustomerName   string `json:"customer_name"`
	CustomerLine   string `json:"customer_line"`
	LicenseNo      string `json:"license_no"`
	VehicleLabel   string `json:"vehicle_label"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Duration       string `json:"duration"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
	Currency       string `json:"currency"`
	NetTotal       string `json:"net_total"`
	Deposit        string `json:"deposit"`
}

// DocumentLine is one priced row on a rendered document. Zero-amount lines
// never reach the template.
type DocumentLine struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// DocumentConfig carries the renderer template ids and the signature page
// spliced onto agreements.
type DocumentConfig struct {
	InvoiceTemplateID   string
	AgreementTemplateID string
	SignaturePagePath   string
}

type documentService struct {
	store    repository.Store
	renderer docrender.Renderer
	storage  docrender.ObjectStorage
	cfg      DocumentConfig
}

func NewDocumentService(store repository.Store, renderer docrender.Renderer, storage docrender.ObjectStorage, cfg DocumentConfig) DocumentService {
	return &documentService{store: store, renderer: renderer, storage: storage, cfg: cfg}
}

// GenerateInvoice renders the booking's invoice and upserts the tracking row.
// The invoice number is assigned on first generation and never changes;
// regeneration only replaces the URL.
func (s *documentService) GenerateInvoice(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error) {
	ref, err := s.loadBookingRefs(ctx, tenantID, bookingID)
	if err != nil {
		return nil, domain.FailOp("generate invoice", err)
	}

	number := ""
	existing, err := s.store.Documents().GetInvoiceByBooking(ctx, tenantID, bookingID)
	switch err.(type) {
	case nil:
		number = existing.Number
	case *domain.NotFoundError:
		number = fmt.Sprintf("INV-%s-%d", ref.tenant.Code, ref.booking.Number)
	default:
		return nil, domain.FailOp("generate invoice", err)
	}

	data := s.buildInvoiceData(number, ref)
	pdf, err := s.renderer.Render(ctx, s.cfg.InvoiceTemplateID, data)
	if err != nil {
		return nil, domain.FailOp("generate invoice", err)
	}

	key := fmt.Sprintf("%s/invoices/%s.pdf", tenantID, bookingID)
	url, err := s.storage.Put(ctx, key, pdf, "application/pdf")
	if err != nil {
		return nil, domain.FailOp("generate invoice", err)
	}

	inv := &domain.Invoice{
		ID:          uuid.New(),
		TenantID:    tenantID,
		BookingID:   bookingID,
		Number:      number,
		Amount:      ref.values.NetTotal,
		URL:         url,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.store.Documents().UpsertInvoice(ctx, inv); err != nil {
		return nil, domain.FailOp("generate invoice", err)
	}

	logger.InfoContext(ctx, "invoice generated",
		"tenant_id", tenantID, "booking_id", bookingID, "number", number)
	return inv, nil
}

// GenerateAgreement renders the agreement, replaces its last page with the
// signature template, uploads the result and upserts the tracking row.
func (s *documentService) GenerateAgreement(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error) {
	ref, err := s.loadBookingRefs(ctx, tenantID, bookingID)
	if err != nil {
		return nil, domain.FailOp("generate agreement", err)
	}

	reference := fmt.Sprintf("AGR-%s-%d", ref.tenant.Code, ref.booking.Number)
	data := s.buildAgreementData(reference, ref)
	pdf, err := s.renderer.Render(ctx, s.cfg.AgreementTemplateID, data)
	if err != nil {
		return nil, domain.FailOp("generate agreement", err)
	}

	if s.cfg.SignaturePagePath != "" {
		sig, err := os.ReadFile(s.cfg.SignaturePagePath)
		if err != nil {
			return nil, domain.FailOp("generate agreement", err)
		}
		pdf, err = docrender.ReplaceLastPage(pdf, sig)
		if err != nil {
			return nil, domain.FailOp("generate agreement", err)
		}
	}

	key := fmt.Sprintf("%s/agreements/%s.pdf", tenantID, bookingID)
	url, err := s.storage.Put(ctx, key, pdf, "application/pdf")
	if err != nil {
		return nil, domain.FailOp("generate agreement", err)
	}

	ag := &domain.Agreement{
		ID:          uuid.New(),
		TenantID:    tenantID,
		BookingID:   bookingID,
		Reference:   reference,
		URL:         url,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.store.Documents().UpsertAgreement(ctx, ag); err != nil {
		return nil, domain.FailOp("generate agreement", err)
	}

	logger.InfoContext(ctx, "agreement generated",
		"tenant_id", tenantID, "booking_id", bookingID, "reference", reference)
	return ag, nil
}

// bookingRefs is everything a document template needs, joined eagerly.
type bookingRefs struct {
	tenant   *domain.Tenant
	booking  *domain.Booking
	vehicle  *domain.Vehicle
	customer *domain.Customer
	pickup   *domain.Location
	dropoff  *domain.Location
	values   *domain.RentalValues
	extras   []domain.RentalExtra
}

func (s *documentService) loadBookingRefs(ctx context.Context, tenantID, bookingID uuid.UUID) (*bookingRefs, error) {
	tenant, err := s.store.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	booking, err := s.store.Bookings().GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.store.Vehicles().GetByID(ctx, tenantID, booking.VehicleID)
	if err != nil {
		return nil, err
	}
	pickup, err := s.store.Locations().GetByID(ctx, tenantID, booking.PickupLocationID)
	if err != nil {
		return nil, err
	}
	dropoff, err := s.store.Locations().GetByID(ctx, tenantID, booking.ReturnLocationID)
	if err != nil {
		return nil, err
	}
	values, err := s.store.Values().GetByBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	extras, err := s.store.Values().ListExtras(ctx, tenantID, values.ID)
	if err != nil {
		return nil, err
	}
	drivers, err := s.store.Drivers().ListByBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	var customer *domain.Customer
	for _, d := range drivers {
		if d.IsPrimary {
			customer, err = s.store.Customers().GetByID(ctx, tenantID, d.CustomerID)
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if customer == nil {
		return nil, domain.NewNotFound("primary driver", bookingID.String())
	}
	return &bookingRefs{
		tenant:   tenant,
		booking:  booking,
		vehicle:  vehicle,
		customer: customer,
		pickup:   pickup,
		dropoff:  dropoff,
		values:   values,
		extras:   extras,
	}, nil
}

func (s *documentService) buildInvoiceData(number string, ref *bookingRefs) InvoiceData {
	loc := ref.tenant.Location()
	v := ref.values

	lines := make([]DocumentLine, 0, 6+len(ref.extras))
	appendLine := func(label string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		lines = append(lines, DocumentLine{Label: label, Amount: money(amount)})
	}
	appendLine(fmt.Sprintf("Rental (%s)", durationPhrase(ref.tenant.ChargeUnit, ref.booking.DurationDays())), v.BasePrice)
	appendLine("Discount", v.Discount.Neg())
	appendLine("Delivery fee", v.DeliveryFee)
	appendLine("Collection fee", v.CollectionFee)
	appendLine("Additional driver fee", v.AdditionalDriverFee)
	for _, e := range ref.extras {
		appendLine(e.Name, e.Amount)
	}
	appendLine("Deposit", v.Deposit)

	return InvoiceData{
		InvoiceNumber: number,
		BookingCode:   ref.booking.Code,
		IssuedDate:    time.Now().In(loc).Format(dateFormat),
		TenantName:    ref.tenant.Name,
		CustomerName:  ref.customer.FullName(),
		CustomerEmail: ref.customer.Email,
		VehicleLabel:  ref.vehicle.Label(),
		StartDate:     ref.booking.StartDate.In(loc).Format(dateFormat),
		EndDate:       ref.booking.EndDate.In(loc).Format(dateFormat),
		Duration:      durationPhrase(ref.tenant.ChargeUnit, ref.booking.DurationDays()),
		Currency:      ref.tenant.Currency,
		Lines:         lines,
		NetTotal:      money(v.NetTotal),
	}
}

func (s *documentService) buildAgreementData(reference string, ref *bookingRefs) AgreementData {
	loc := ref.tenant.Location()
	return AgreementData{
		Reference:      reference,
		BookingCode:    ref.booking.Code,
		TenantName:     ref.tenant.Name,
		CustomerName:   ref.customer.FullName(),
		CustomerLine:   customerLine(ref.customer),
		LicenseNo:      ref.customer.LicenseNo,
		VehicleLabel:   ref.vehicle.Label(),
		StartDate:      ref.booking.StartDate.In(loc).Format(dateFormat),
		EndDate:        ref.booking.EndDate.In(loc).Format(dateFormat),
		Duration:       durationPhrase(ref.tenant.ChargeUnit, ref.booking.DurationDays()),
		PickupLocation: ref.pickup.Name,
		ReturnLocation: ref.dropoff.Name,
		Currency:       ref.tenant.Currency,
		NetTotal:       money(ref.values.NetTotal),
		Deposit:        money(ref.values.Deposit),
	}
}

// durationPhrase renders the rental length in the tenant's charge unit with
// correct pluralization: "1 day", "3 days", "2 weeks".
func durationPhrase(unit domain.ChargeUnit, days int) string {
	count := days
	word := "day"
	switch unit {
	case domain.ChargeUnitWeek:
		count = ceilDiv(days, 7)
		word = "week"
	case domain.ChargeUnitMonth:
		count = ceilDiv(days, 30)
		word = "month"
	}
	if count == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}

func ceilDiv(a, b int) int {
	n := (a + b - 1) / b
	if n < 1 {
		n = 1
	}
	return n
}

// money formats an amount with two decimals for presentation.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func customerLine(c *domain.Customer) string {
	parts := []string{c.Address, c.City, c.PostalCode, c.Country}
	line := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if line != "" {
			line += ", "
		}
		line += p
	}
	return line
}
