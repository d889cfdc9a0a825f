// Package availability is the orchestration layer between name generation and
// the registry clients: it checks batches of candidate domains while
// respecting third-party quotas.
//
// Behavior contract:
//
//   - Results preserve input order and the batch is capped (default 10);
//     overflow is silently truncated.
//   - A rate limiter denial aborts the remainder of the batch (fail-fast),
//     resolving the denied and all following domains to an error status.
//   - Invalid domain syntax fails only that domain, consuming neither a
//     network call nor a limiter slot.
//   - No expected failure ever propagates as an error: everything degrades to
//     a per-domain error status, with the cause recorded in a single
//     last-error slot readable via LastError.
//
// The limiter and the last-error slot are shared by all callers of a Service
// instance: concurrent batches draw from the same quota and overwrite the
// same error slot. That is acceptable for a low-traffic single-tenant
// deployment; multi-tenant use must key Service instances (or limiter keys)
// per tenant.
package availability
