// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the tracking platform. It implements
// workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - VoucherResolver: dispatches a raw tracking voucher to the correct courier
//     provider via a deterministic priority scan
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
