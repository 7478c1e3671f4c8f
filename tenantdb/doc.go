/*
Package tenantdb creates and seeds the per-tenant SQLite database.

Every tenant database starts as a byte copy of a canonical empty-schema
template file, then receives its bootstrap rows in a single
transaction: the owner user, the payment-provider row, the resolved
locale settings, the company, the integration placeholder and one plan
per requested plan with its derived requirements and ordered selling
points. A failed insert rolls the transaction back and removes the
copied file, so a tenant database either exists fully seeded or not at
all.
*/
package tenantdb
