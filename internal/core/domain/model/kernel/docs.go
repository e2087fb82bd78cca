// Package kernel provides core domain primitives for the delivery-tracking platform.
// It implements fundamental building blocks following Domain-Driven Design principles
// that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//
// UUID is the platform's canonical identifier format: tenants, shipments and audit
// events are all addressed by it, and tenant-override values arriving on the wire
// are accepted only when they parse as one.
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
//
// The package follows Domain-Driven Design best practices, providing rich domain
// behavior and encapsulation of implementation details.
package kernel
