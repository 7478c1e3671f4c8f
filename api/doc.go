/*
Package api defines the wire types and error taxonomy shared between the
provisioning server, its HTTP handler and the client library.

A provisioning call carries a ProvisionRequest describing the company,
the owner account and the initial plans. On success the server responds
with a plaintext owner login URL; when the derived address is already
provisioned it responds with a DuplicateSiteResponse.

The error types here classify every caller-visible failure mode:

  - DuplicateSiteError: the address is already claimed (idempotent outcome)
  - ErrInvalidIdentity: the company name has no usable characters
  - MissingFieldError: a required payload field is absent
  - ConfigValidationError: synthesized settings failed schema validation

Anything else is an infrastructure failure and is propagated wrapped.
*/
package api
