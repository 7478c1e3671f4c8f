/*
Package provisioner orchestrates shop tenant provisioning.

One inbound request becomes a fully running tenant through a fixed
sequence: derive the site identity from the company name, resolve the
locale, claim the tenant directory (the atomic idempotency guard),
synthesize and validate the settings document, copy and seed the tenant
database, and publish the reverse-proxy routing fragment. The caller
receives the owner login URL.

# Failure policy

The mutating steps run off an explicit table that marks each step fatal
or advisory. Every current step is fatal: a failure rolls back the
allocated directory so no half-provisioned tenant survives and a retry
starts from a clean slate. A duplicate address short-circuits before
any mutation and is reported as api.DuplicateSiteError; because
directory creation is the claim point, retried requests are safe and
return the same outcome.

The package also provides the HTTP Handler exposing the operation and a
Client for calling a remote provisioning server.
*/
package provisioner
