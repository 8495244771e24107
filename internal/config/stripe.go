package config

import (
	"strings"

	"github.com/gfamlabs/agencydesk/internal/types"
)

// StripeConfig holds the payment processor credentials. A single account
// serves the whole agency; organization-scoped keys additionally need a
// per-brand account mapping.
type StripeConfig struct {
	SecretKey     string              `mapstructure:"secret_key"`
	WebhookSecret string              `mapstructure:"webhook_secret"`
	BrandAccounts StripeBrandAccounts `mapstructure:"brand_accounts"`
}

// StripeBrandAccounts maps each brand to its account id. Only required when
// the secret key is organization-scoped.
type StripeBrandAccounts struct {
	Sankofa    string `mapstructure:"sankofa"`
	Lighthouse string `mapstructure:"lighthouse"`
	Centex     string `mapstructure:"centex"`
	GFAMMedia  string `mapstructure:"gfam_media"`
	Agency     string `mapstructure:"agency"`
}

// IsOrganizationKey reports whether the secret key is organization-scoped,
// which requires per-request account context.
func (c StripeConfig) IsOrganizationKey() bool {
	return strings.HasPrefix(c.SecretKey, "sk_org_") ||
		strings.HasPrefix(c.SecretKey, "rk_")
}

// AccountForBrand returns the account id configured for the given brand, or
// empty when none is configured.
func (c StripeConfig) AccountForBrand(brand types.Brand) string {
	switch brand {
	case types.BrandSankofa:
		return c.BrandAccounts.Sankofa
	case types.BrandLighthouse:
		return c.BrandAccounts.Lighthouse
	case types.BrandCentex:
		return c.BrandAccounts.Centex
	case types.BrandGFAMMedia:
		return c.BrandAccounts.GFAMMedia
	case types.ParentOrganization:
		return c.BrandAccounts.Agency
	default:
		return ""
	}
}

// MissingBrandAccounts lists brands without an account id. Relevant only
// under an organization-scoped key.
func (c StripeConfig) MissingBrandAccounts() []types.Brand {
	var missing []types.Brand
	for _, b := range append(types.AllBrands(), types.ParentOrganization) {
		if c.AccountForBrand(b) == "" {
			missing = append(missing, b)
		}
	}
	return missing
}
