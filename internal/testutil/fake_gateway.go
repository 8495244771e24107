package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// FakeGateway implements integration.Gateway in memory, recording every call
// so tests can assert on the exact remote interaction sequence. Error fields
// inject failures; when the matching Call counter is zero the error fires on
// the first call, otherwise on the call with that 1-based index.
type FakeGateway struct {
	mu sync.Mutex

	Customers    []integration.CustomerParams
	Invoices     []integration.InvoiceParams
	CatalogItems []integration.CatalogItemParams
	AdHocItems   []integration.AdHocItemParams
	Finalized    []string
	Sent         []string
	Products     []integration.ProductParams
	Prices       []integration.PriceParams

	CreateCustomerErr     error
	CreateInvoiceErr      error
	AddCatalogItemErr     error
	AddCatalogItemErrCall int
	AddAdHocItemErr       error
	AddAdHocItemErrCall   int
	FinalizeErr           error
	SendErr               error
	CreateProductErr      error
	CreatePriceErr        error

	WebhookEvent *integration.WebhookEvent
	WebhookErr   error

	customerSeq int
	invoiceSeq  int
	productSeq  int
	priceSeq    int

	catalogItemCalls int
	adHocItemCalls   int
}

// NewFakeGateway creates a new fake payment gateway
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

var _ integration.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) CreateCustomer(ctx context.Context, params integration.CustomerParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreateCustomerErr != nil {
		return "", g.CreateCustomerErr
	}
	g.Customers = append(g.Customers, params)
	g.customerSeq++
	return fmt.Sprintf("cus_fake_%d", g.customerSeq), nil
}

func (g *FakeGateway) CreateInvoice(ctx context.Context, params integration.InvoiceParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreateInvoiceErr != nil {
		return "", g.CreateInvoiceErr
	}
	g.Invoices = append(g.Invoices, params)
	g.invoiceSeq++
	return fmt.Sprintf("in_fake_%d", g.invoiceSeq), nil
}

func (g *FakeGateway) AddCatalogInvoiceItem(ctx context.Context, params integration.CatalogItemParams) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.catalogItemCalls++
	if g.AddCatalogItemErr != nil {
		if g.AddCatalogItemErrCall == 0 || g.AddCatalogItemErrCall == g.catalogItemCalls {
			return g.AddCatalogItemErr
		}
	}
	g.CatalogItems = append(g.CatalogItems, params)
	return nil
}

func (g *FakeGateway) AddAdHocInvoiceItem(ctx context.Context, params integration.AdHocItemParams) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.adHocItemCalls++
	if g.AddAdHocItemErr != nil {
		if g.AddAdHocItemErrCall == 0 || g.AddAdHocItemErrCall == g.adHocItemCalls {
			return g.AddAdHocItemErr
		}
	}
	g.AdHocItems = append(g.AdHocItems, params)
	return nil
}

func (g *FakeGateway) FinalizeInvoice(ctx context.Context, brand types.Brand, invoiceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FinalizeErr != nil {
		return g.FinalizeErr
	}
	g.Finalized = append(g.Finalized, invoiceID)
	return nil
}

func (g *FakeGateway) SendInvoice(ctx context.Context, brand types.Brand, invoiceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.SendErr != nil {
		return g.SendErr
	}
	g.Sent = append(g.Sent, invoiceID)
	return nil
}

func (g *FakeGateway) CreateProduct(ctx context.Context, params integration.ProductParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreateProductErr != nil {
		return "", g.CreateProductErr
	}
	g.Products = append(g.Products, params)
	g.productSeq++
	return fmt.Sprintf("prod_fake_%d", g.productSeq), nil
}

func (g *FakeGateway) CreatePrice(ctx context.Context, params integration.PriceParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreatePriceErr != nil {
		return "", g.CreatePriceErr
	}
	g.Prices = append(g.Prices, params)
	g.priceSeq++
	return fmt.Sprintf("price_fake_%d", g.priceSeq), nil
}

func (g *FakeGateway) VerifyWebhookEvent(payload []byte, signature string) (*integration.WebhookEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.WebhookErr != nil {
		return nil, g.WebhookErr
	}
	return g.WebhookEvent, nil
}

// TotalLineItemCalls returns how many remote line item attachments were
// attempted, across both the catalog and ad hoc paths.
func (g *FakeGateway) TotalLineItemCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.catalogItemCalls + g.adHocItemCalls
}
