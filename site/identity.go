package site

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopfront/provisioner/api"
)

// slugStrip removes every character that is not a letter, digit or
// underscore. Applying it twice yields the same result, so derived
// slugs are stable under re-normalization.
var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Identity is the canonical identity of a tenant: the normalized slug
// and the fully-qualified address it is reachable under. The address
// uniquely identifies the tenant's site directory.
type Identity struct {
	Slug    string
	Address string
}

// DeriveIdentity normalizes a company name into a slug and joins it
// with the domain suffix to form the tenant address. It returns
// api.ErrInvalidIdentity when nothing usable remains after
// normalization. No side effects.
func DeriveIdentity(companyName, domainSuffix string) (Identity, error) {
	slug := strings.ToLower(slugStrip.ReplaceAllString(companyName, ""))
	if slug == "" {
		return Identity{}, api.ErrInvalidIdentity
	}
	return Identity{
		Slug:    slug,
		Address: slug + "." + domainSuffix,
	}, nil
}

// SiteDir returns the tenant directory under the given sites root.
func (id Identity) SiteDir(root string) string {
	return filepath.Join(root, id.Address)
}
