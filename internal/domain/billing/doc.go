// Package billing provides domain models for metering delivery order
// usage against the free-tier quota.
//
// This package implements the usage metering bounded context, which is
// responsible for:
//   - Counting delivery orders created per tenant and billing period
//   - Deciding whether a new delivery order is within quota
//   - Resetting counters when a billing cycle closes
//
// Key Aggregates:
//   - UsageCounter: Per-tenant, per-period count of created delivery orders
//
// The quota only binds tenants whose resolved entitlements say so; the
// subscription domain owns that decision.
package billing
