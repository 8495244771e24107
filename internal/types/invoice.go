package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
)

// InvoiceStatus tracks the lifecycle of an invoice. Transitions after
// creation happen only through the send operation or through payment
// processor webhook reconciliation.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid,
		InvoiceStatusVoid, InvoiceStatusUncollectible:
		return nil
	default:
		return ierr.NewError("invalid invoice status").
			WithHint("Invoice status is not recognized").
			WithReportableDetails(map[string]any{
				"status": string(s),
			}).
			Mark(ierr.ErrValidation)
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusUncollectible:
		return true
	default:
		return false
	}
}

// GenerateInvoiceNumber returns a human-readable invoice number of the form
// INV-<base36 unix millis, uppercase>-<4 char random suffix>. Uniqueness is
// probabilistic; the suffix guards against same-millisecond collisions.
func GenerateInvoiceNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("INV-%s-%s", ts, GenerateShortCode(4))
}
