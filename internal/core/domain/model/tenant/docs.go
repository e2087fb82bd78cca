// Package tenant implements the Tenant aggregate, the isolation boundary of the
// multi-tenant tracking platform.
//
// Every tenant owns a unique lowercase subdomain and optionally a unique custom
// primary domain; both are inputs to request resolution. Activation and
// suspension state gate resolution: a tenant that is not operational behaves as
// if it did not exist, no matter how explicitly a request addresses it.
package tenant
