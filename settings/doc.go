/*
Package settings synthesizes, validates and persists the per-tenant
configuration document.

Synthesis merges process-wide defaults (shared secrets, platform
endpoints, install paths) with tenant-specific derived values (server
name, database location, redirect URLs). The resulting document is
validated against the schema encoded in the struct tags before it is
written; an invalid document is never persisted, not even partially,
because the write goes through a temp file and an atomic rename.
*/
package settings
