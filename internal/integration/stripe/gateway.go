package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v82"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// Gateway implements integration.Gateway against the Stripe API
type Gateway struct {
	client *Client
	logger *logger.Logger
}

// NewGateway creates a new Stripe gateway
func NewGateway(client *Client, logger *logger.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger,
	}
}

var _ integration.Gateway = (*Gateway)(nil)

// CreateCustomer creates a customer in Stripe and returns its id
func (g *Gateway) CreateCustomer(ctx context.Context, params integration.CustomerParams) (string, error) {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	createParams := &stripe.CustomerCreateParams{
		Name:     stripe.String(params.Name),
		Email:    stripe.String(params.Email),
		Metadata: params.Metadata,
	}

	customer, err := stripeClient.V1Customers.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to create customer in Stripe",
			"error", err,
			"email", params.Email)
		return "", ierr.NewError("failed to create customer in Stripe").
			WithHint("Stripe API error").
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Infow("created customer in Stripe",
		"stripe_customer_id", customer.ID,
		"email", params.Email)

	return customer.ID, nil
}

// CreateInvoice creates a draft invoice in Stripe and returns its id. The
// invoice is created with send_invoice collection so the client receives an
// emailed invoice rather than an automatic charge.
func (g *Gateway) CreateInvoice(ctx context.Context, params integration.InvoiceParams) (string, error) {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	account, err := g.client.AccountForBrand(params.Brand)
	if err != nil {
		return "", err
	}

	createParams := &stripe.InvoiceCreateParams{
		Customer:         stripe.String(params.CustomerID),
		CollectionMethod: stripe.String(string(stripe.InvoiceCollectionMethodSendInvoice)),
		DaysUntilDue:     stripe.Int64(params.DaysUntilDue),
		Description:      stripe.String(params.Description),
		Metadata:         params.Metadata,
	}
	if account != "" {
		createParams.SetStripeAccount(account)
	}

	invoice, err := stripeClient.V1Invoices.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to create invoice in Stripe",
			"error", err,
			"customer_id", params.CustomerID,
			"brand", params.Brand)
		return "", ierr.NewError("failed to create invoice in Stripe").
			WithHint("Unable to create draft invoice in Stripe").
			WithReportableDetails(map[string]any{
				"customer_id": params.CustomerID,
				"error":       err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Infow("created draft invoice in Stripe",
		"stripe_invoice_id", invoice.ID,
		"customer_id", params.CustomerID)

	return invoice.ID, nil
}

// AddCatalogInvoiceItem attaches a line item referencing a synced catalog
// price.
func (g *Gateway) AddCatalogInvoiceItem(ctx context.Context, params integration.CatalogItemParams) error {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return err
	}

	account, err := g.client.AccountForBrand(params.Brand)
	if err != nil {
		return err
	}

	createParams := &stripe.InvoiceItemCreateParams{
		Customer: stripe.String(params.CustomerID),
		Invoice:  stripe.String(params.InvoiceID),
		Pricing: &stripe.InvoiceItemCreatePricingParams{
			Price: stripe.String(params.PriceID),
		},
		Quantity: stripe.Int64(params.Quantity),
		Metadata: params.Metadata,
	}
	if account != "" {
		createParams.SetStripeAccount(account)
	}

	item, err := stripeClient.V1InvoiceItems.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to add catalog line item to Stripe invoice",
			"error", err,
			"stripe_invoice_id", params.InvoiceID,
			"price_id", params.PriceID)
		return ierr.NewError("failed to add line item to Stripe").
			WithHint("Unable to add line item to Stripe invoice").
			WithReportableDetails(map[string]any{
				"stripe_invoice_id": params.InvoiceID,
				"price_id":          params.PriceID,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Debugw("added catalog line item to Stripe invoice",
		"stripe_invoice_id", params.InvoiceID,
		"stripe_item_id", item.ID)

	return nil
}

// AddAdHocInvoiceItem attaches a line item priced inline. Stripe allows
// either an amount or a quantity on an invoice item, not both, so the total
// is computed here.
func (g *Gateway) AddAdHocInvoiceItem(ctx context.Context, params integration.AdHocItemParams) error {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return err
	}

	account, err := g.client.AccountForBrand(params.Brand)
	if err != nil {
		return err
	}

	createParams := &stripe.InvoiceItemCreateParams{
		Customer:    stripe.String(params.CustomerID),
		Invoice:     stripe.String(params.InvoiceID),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(params.Description),
		Amount:      stripe.Int64(params.UnitAmountCents * params.Quantity),
		Metadata:    params.Metadata,
	}
	if account != "" {
		createParams.SetStripeAccount(account)
	}

	item, err := stripeClient.V1InvoiceItems.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to add ad hoc line item to Stripe invoice",
			"error", err,
			"stripe_invoice_id", params.InvoiceID,
			"description", params.Description)
		return ierr.NewError("failed to add line item to Stripe").
			WithHint("Unable to add line item to Stripe invoice").
			WithReportableDetails(map[string]any{
				"stripe_invoice_id": params.InvoiceID,
				"description":       params.Description,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Debugw("added ad hoc line item to Stripe invoice",
		"stripe_invoice_id", params.InvoiceID,
		"stripe_item_id", item.ID)

	return nil
}

// FinalizeInvoice finalizes the draft invoice in Stripe
func (g *Gateway) FinalizeInvoice(ctx context.Context, brand types.Brand, invoiceID string) error {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return err
	}

	account, err := g.client.AccountForBrand(brand)
	if err != nil {
		return err
	}

	params := &stripe.InvoiceFinalizeInvoiceParams{}
	if account != "" {
		params.SetStripeAccount(account)
	}

	_, err = stripeClient.V1Invoices.FinalizeInvoice(ctx, invoiceID, params)
	if err != nil {
		g.logger.Errorw("failed to finalize Stripe invoice",
			"error", err,
			"stripe_invoice_id", invoiceID)
		return ierr.NewError("failed to finalize Stripe invoice").
			WithHint("Unable to finalize invoice in Stripe").
			WithReportableDetails(map[string]any{
				"stripe_invoice_id": invoiceID,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Infow("finalized Stripe invoice", "stripe_invoice_id", invoiceID)
	return nil
}

// SendInvoice emails the finalized invoice to the customer
func (g *Gateway) SendInvoice(ctx context.Context, brand types.Brand, invoiceID string) error {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return err
	}

	account, err := g.client.AccountForBrand(brand)
	if err != nil {
		return err
	}

	params := &stripe.InvoiceSendInvoiceParams{}
	if account != "" {
		params.SetStripeAccount(account)
	}

	_, err = stripeClient.V1Invoices.SendInvoice(ctx, invoiceID, params)
	if err != nil {
		g.logger.Errorw("failed to send Stripe invoice",
			"error", err,
			"stripe_invoice_id", invoiceID)
		return ierr.NewError("failed to send Stripe invoice").
			WithHint("Unable to send invoice to the client").
			WithReportableDetails(map[string]any{
				"stripe_invoice_id": invoiceID,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.logger.Infow("sent Stripe invoice", "stripe_invoice_id", invoiceID)
	return nil
}

// CreateProduct creates a product in Stripe mirroring a catalog service
func (g *Gateway) CreateProduct(ctx context.Context, params integration.ProductParams) (string, error) {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	account, err := g.client.AccountForBrand(params.Brand)
	if err != nil {
		return "", err
	}

	createParams := &stripe.ProductCreateParams{
		Name:     stripe.String(params.Name),
		Metadata: params.Metadata,
	}
	if params.Description != "" {
		createParams.Description = stripe.String(params.Description)
	}
	if account != "" {
		createParams.SetStripeAccount(account)
	}

	product, err := stripeClient.V1Products.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to create product in Stripe",
			"error", err,
			"name", params.Name,
			"brand", params.Brand)
		return "", ierr.NewError("failed to create product in Stripe").
			WithHint("Stripe API error").
			WithReportableDetails(map[string]any{
				"name":  params.Name,
				"error": err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return product.ID, nil
}

// CreatePrice creates a price in Stripe for a previously created product
func (g *Gateway) CreatePrice(ctx context.Context, params integration.PriceParams) (string, error) {
	stripeClient, err := g.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	account, err := g.client.AccountForBrand(params.Brand)
	if err != nil {
		return "", err
	}

	createParams := &stripe.PriceCreateParams{
		Product:    stripe.String(params.ProductID),
		UnitAmount: stripe.Int64(params.UnitAmountCents),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Metadata:   params.Metadata,
	}
	if account != "" {
		createParams.SetStripeAccount(account)
	}

	price, err := stripeClient.V1Prices.Create(ctx, createParams)
	if err != nil {
		g.logger.Errorw("failed to create price in Stripe",
			"error", err,
			"product_id", params.ProductID)
		return "", ierr.NewError("failed to create price in Stripe").
			WithHint("Stripe API error").
			WithReportableDetails(map[string]any{
				"product_id": params.ProductID,
				"error":      err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return price.ID, nil
}
