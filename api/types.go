package api

import "fmt"

// CompanySpec identifies the company a new shop is provisioned for.
// The name is the only input to site identity derivation.
type CompanySpec struct {
	Name string `json:"name"`
}

// PlanSpec describes one sellable plan seeded into the tenant database.
type PlanSpec struct {
	// Title is the display name of the plan.
	Title string `json:"title"`

	// Description is optional; blank values are stored as NULL.
	Description string `json:"description,omitempty"`

	// IntervalAmount is the recurring charge in the smallest currency
	// unit. Zero means the plan has no subscription component.
	IntervalAmount int `json:"interval_amount"`

	// IntervalUnit is one of "weekly", "monthly" or "yearly". Any other
	// value is coerced to "monthly" during seeding.
	IntervalUnit string `json:"interval_unit"`

	// SellPrice is the up-front charge in the smallest currency unit.
	// Zero means the plan has no instant-payment component.
	SellPrice int `json:"sell_price"`

	// SellingPoints are optional marketing bullet points. When absent,
	// three placeholder points are seeded.
	SellingPoints []string `json:"selling_points,omitempty"`
}

// ProvisionRequest is the JSON body of a provisioning call. It is
// immutable after parse and never persisted as-is.
type ProvisionRequest struct {
	Company CompanySpec `json:"company"`

	// Users is the list of owner email addresses. The first entry is the
	// primary login and must be present.
	Users []string `json:"users"`

	// Password is the owner's initial password. It is hashed before
	// storage and never written anywhere in plaintext.
	Password string `json:"password"`

	Plans []PlanSpec `json:"plans"`

	// LoginToken is an optional opaque credential granting the owner
	// passwordless entry to the new shop.
	LoginToken string `json:"login_token,omitempty"`

	// CountryCode is an optional ISO 3166-1 alpha-2 code. Unsupported or
	// absent codes fall back to the configured default country.
	CountryCode string `json:"country_code,omitempty"`
}

// DuplicateSiteResponse is the JSON body returned when the derived
// address is already provisioned.
type DuplicateSiteResponse struct {
	Message string `json:"message"`
}

// LoginURL builds the owner login URL for a provisioned address.
func LoginURL(address, loginToken string) string {
	return fmt.Sprintf("https://%s/auth/login/%s", address, loginToken)
}
