package types

// Metadata keys attached to payment processor objects. The invoice creation
// flow writes these and webhook reconciliation reads them back, so both sides
// must agree on the exact spelling.
const (
	// MetadataKeyAgencyInvoiceID carries the local invoice id on the remote
	// invoice. It is the sole correlation key used by reconciliation.
	MetadataKeyAgencyInvoiceID = "agency_invoice_id"
	MetadataKeyInvoiceNumber   = "invoice_number"
	MetadataKeyPrimaryBrand    = "primary_brand"
	// MetadataKeyBrands holds the participating brands as a JSON array.
	MetadataKeyBrands = "brands"
	MetadataKeyAgency = "agency"

	MetadataKeyBrand          = "brand"
	MetadataKeyCategory       = "category"
	MetadataKeyIsCustomPrice  = "is_custom_price"
	MetadataKeyServiceID      = "service_id"
	MetadataKeyAgencyClientID = "agency_client_id"
	MetadataKeyCompany        = "company"
	MetadataKeyTags           = "tags"
)
