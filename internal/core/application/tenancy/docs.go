// Package tenancy implements request-scoped tenant resolution and the scoping
// gate that keeps every downstream data access inside the resolved tenant's
// partition.
//
// Resolution follows a strict precedence chain (super-admin override, route
// parameter, host domain, authenticated principal) and fails closed: when no
// step yields an operational tenant the request must be rejected, never served
// from a default tenant. Results are memoized per request via
// ResolutionContext and the binding travels in a context.Context value, so
// concurrent requests cannot cross-contaminate.
package tenancy
