/*
Package site derives tenant identities and claims their filesystem
namespaces.

Identity derivation turns a company name into a DNS- and
filesystem-safe slug and joins it with the configured domain suffix to
form the tenant address. Locale resolution maps an optional country
code to a supported (country, currency) pair, falling back to the
default country for anything outside the allow-list.

The Allocator treats creation of the tenant directory as the atomic
claim on the address: a second request for the same address observes
api.DuplicateSiteError and performs no writes, which is what makes
retried provisioning requests safe.
*/
package site
