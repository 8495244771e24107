package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	"github.com/gfamlabs/agencydesk/internal/domain/client"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/types"
)

const invoiceDaysUntilDue = 30

// InvoiceService runs the invoice creation flow against the payment
// processor and serves invoice reads.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error)
	SendDraftInvoice(ctx context.Context, id string) (*dto.SendInvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	GetRevenueByBrand(ctx context.Context) (*dto.RevenueByBrandResponse, error)
}

type invoiceService struct {
	ServiceParams
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

// CreateInvoice creates a local invoice record, mirrors it to the processor
// and attaches every cart line. The local draft is written before any remote
// call so a remote failure leaves an inspectable draft rather than losing the
// request. Local line items are persisted only after every remote line
// attached, so a partial failure leaves a draft with no local line items as
// the signal that remote state is incomplete.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	lines := req.ToCartLines()
	participating := invoice.ParticipatingBrands(lines)
	primaryBrand := invoice.PrimaryBrand(participating)
	totalCents := invoice.CartTotalCents(lines)

	inv := &invoice.Invoice{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber:       types.GenerateInvoiceNumber(),
		ClientID:            c.ID,
		PrimaryBrand:        primaryBrand,
		ParticipatingBrands: participating,
		InvoiceStatus:       types.InvoiceStatusDraft,
		TotalCents:          totalCents,
		Notes:               req.Notes,
		BaseModel:           types.GetDefaultBaseModel(),
	}
	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	customerID, err := s.resolveCustomer(ctx, c)
	if err != nil {
		return nil, err
	}

	brandsJSON, err := json.Marshal(participating)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode participating brands").
			Mark(ierr.ErrInternal)
	}

	stripeInvoiceID, err := s.Gateway.CreateInvoice(ctx, integration.InvoiceParams{
		CustomerID:   customerID,
		Brand:        primaryBrand,
		Description:  invoiceDescription(participating),
		DaysUntilDue: invoiceDaysUntilDue,
		Metadata: map[string]string{
			types.MetadataKeyAgency:          string(types.ParentOrganization),
			types.MetadataKeyPrimaryBrand:    string(primaryBrand),
			types.MetadataKeyBrands:          string(brandsJSON),
			types.MetadataKeyAgencyInvoiceID: inv.ID,
			types.MetadataKeyInvoiceNumber:   inv.InvoiceNumber,
		},
	})
	if err != nil {
		s.Logger.Errorw("failed to create remote invoice, local draft kept",
			"invoice_id", inv.ID,
			"error", err)
		return nil, err
	}

	for _, line := range lines {
		if err := s.attachLine(ctx, customerID, stripeInvoiceID, inv, line); err != nil {
			s.Logger.Errorw("failed to attach remote line item, draft left without local line items",
				"invoice_id", inv.ID,
				"stripe_invoice_id", stripeInvoiceID,
				"line_name", line.Name,
				"error", err)
			return nil, err
		}
	}

	items := lo.Map(lines, func(l invoice.CartLine, _ int) *invoice.InvoiceLineItem {
		return l.ToLineItem(inv.ID)
	})
	if err := s.LineItemRepo.CreateMany(ctx, items); err != nil {
		return nil, err
	}

	status := types.InvoiceStatusDraft
	if req.SendImmediately {
		if err := s.Gateway.FinalizeInvoice(ctx, primaryBrand, stripeInvoiceID); err != nil {
			return nil, err
		}
		if err := s.Gateway.SendInvoice(ctx, primaryBrand, stripeInvoiceID); err != nil {
			return nil, err
		}
		status = types.InvoiceStatusOpen
		now := time.Now().UTC()
		inv.SentAt = &now
	}

	inv.StripeInvoiceID = stripeInvoiceID
	inv.InvoiceStatus = status
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"stripe_invoice_id", stripeInvoiceID,
		"primary_brand", primaryBrand,
		"total_cents", totalCents,
		"status", status)

	return &dto.CreateInvoiceResponse{
		Success:         true,
		InvoiceID:       inv.ID,
		StripeInvoiceID: stripeInvoiceID,
		InvoiceNumber:   inv.InvoiceNumber,
		Status:          status,
		TotalCents:      totalCents,
		TotalDollars:    dto.FormatCents(totalCents),
	}, nil
}

// resolveCustomer returns the client's processor customer id, creating one on
// first use. The id is written back with a set-once guard; a concurrent
// writer winning the race is tolerated and its id is reused.
func (s *invoiceService) resolveCustomer(ctx context.Context, c *client.Client) (string, error) {
	if c.HasStripeCustomer() {
		return c.StripeCustomerID, nil
	}

	customerID, err := s.Gateway.CreateCustomer(ctx, integration.CustomerParams{
		Name:  c.Name,
		Email: c.Email,
		Metadata: map[string]string{
			types.MetadataKeyAgencyClientID: c.ID,
			types.MetadataKeyCompany:        c.Company,
			types.MetadataKeyAgency:         string(types.ParentOrganization),
		},
	})
	if err != nil {
		return "", err
	}

	if err := s.ClientRepo.SetStripeCustomerID(ctx, c.ID, customerID); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return "", err
		}
		refreshed, getErr := s.ClientRepo.Get(ctx, c.ID)
		if getErr != nil {
			return "", getErr
		}
		s.Logger.Warnw("concurrent customer creation detected, reusing stored id",
			"client_id", c.ID,
			"stored_customer_id", refreshed.StripeCustomerID,
			"orphaned_customer_id", customerID)
		return refreshed.StripeCustomerID, nil
	}

	c.StripeCustomerID = customerID
	return customerID, nil
}

// attachLine adds one remote line item, choosing the catalog price reference
// when the line carries a synced price and no override, otherwise the ad-hoc
// path with an inline amount.
func (s *invoiceService) attachLine(ctx context.Context, customerID, stripeInvoiceID string, inv *invoice.Invoice, line invoice.CartLine) error {
	metadata := map[string]string{
		types.MetadataKeyAgencyInvoiceID: inv.ID,
		types.MetadataKeyInvoiceNumber:   inv.InvoiceNumber,
		types.MetadataKeyBrand:           string(line.Brand),
		types.MetadataKeyCategory:        line.Category,
		types.MetadataKeyIsCustomPrice:   boolString(line.IsCustomPricing()),
	}
	if line.ServiceID != "" {
		metadata[types.MetadataKeyServiceID] = line.ServiceID
	}

	if line.UsesCatalogPrice() {
		return s.Gateway.AddCatalogInvoiceItem(ctx, integration.CatalogItemParams{
			CustomerID: customerID,
			InvoiceID:  stripeInvoiceID,
			PriceID:    line.StripePriceID,
			Quantity:   line.Quantity,
			Brand:      inv.PrimaryBrand,
			Metadata:   metadata,
		})
	}

	// Any override price marks the line as custom in its description
	description := line.Name
	if line.CustomPriceCents != nil {
		description = string(line.Brand) + " Custom: " + line.Name
	}

	return s.Gateway.AddAdHocInvoiceItem(ctx, integration.AdHocItemParams{
		CustomerID:      customerID,
		InvoiceID:       stripeInvoiceID,
		Description:     description,
		UnitAmountCents: line.EffectivePriceCents(),
		Quantity:        line.Quantity,
		Brand:           inv.PrimaryBrand,
		Metadata:        metadata,
	})
}

// SendDraftInvoice finalizes and sends an invoice that was created without
// send_immediately. The stored total is not recomputed.
func (s *invoiceService) SendDraftInvoice(ctx context.Context, id string) (*dto.SendInvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.StripeInvoiceID == "" {
		return nil, ierr.NewError("invoice has no processor invoice").
			WithHint("The invoice was never mirrored to the payment processor and cannot be sent").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return nil, ierr.NewError("invoice is not a draft").
			WithHintf("Only draft invoices can be sent, current status is %s", inv.InvoiceStatus).
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
				"status":     inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.Gateway.FinalizeInvoice(ctx, inv.PrimaryBrand, inv.StripeInvoiceID); err != nil {
		return nil, err
	}
	if err := s.Gateway.SendInvoice(ctx, inv.PrimaryBrand, inv.StripeInvoiceID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.InvoiceStatus = types.InvoiceStatusOpen
	inv.SentAt = &now
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("sent draft invoice",
		"invoice_id", inv.ID,
		"stripe_invoice_id", inv.StripeInvoiceID)

	return &dto.SendInvoiceResponse{
		Success:   true,
		InvoiceID: inv.ID,
		Status:    inv.InvoiceStatus,
	}, nil
}

// GetInvoice returns one invoice with its line items and client
func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewInvoiceResponse(inv)

	items, err := s.LineItemRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.LineItems = lo.Map(items, func(li *invoice.InvoiceLineItem, _ int) *dto.LineItemResponse {
		return dto.NewLineItemResponse(li)
	})

	c, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
	} else {
		resp.Client = &dto.ClientResponse{Client: c}
	}

	return resp, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv)
		}),
		Total: total,
	}, nil
}

// GetRevenueByBrand aggregates line item revenue per operating brand across
// all invoices. Attribution follows the line's brand, not the invoice's
// primary brand, so multi-brand invoices credit each brand its own lines.
func (s *invoiceService) GetRevenueByBrand(ctx context.Context) (*dto.RevenueByBrandResponse, error) {
	items, err := s.LineItemRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[types.Brand]int64)
	for _, li := range items {
		totals[li.Brand] += li.TotalCents()
	}

	brands := make([]*dto.BrandRevenue, 0, len(totals))
	for brand, cents := range totals {
		brands = append(brands, &dto.BrandRevenue{
			Brand:          brand,
			RevenueCents:   cents,
			RevenueDollars: dto.FormatCents(cents),
		})
	}
	sort.Slice(brands, func(i, j int) bool {
		if brands[i].RevenueCents != brands[j].RevenueCents {
			return brands[i].RevenueCents > brands[j].RevenueCents
		}
		return brands[i].Brand < brands[j].Brand
	})

	return &dto.RevenueByBrandResponse{Brands: brands}, nil
}

// invoiceDescription renders the remote invoice description from the
// participating brands, e.g. "Services by Sankofa & Centex Solutions".
func invoiceDescription(brands []types.Brand) string {
	names := lo.Map(brands, func(b types.Brand, _ int) string {
		return string(b)
	})
	return "Services by " + strings.Join(names, " & ")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
