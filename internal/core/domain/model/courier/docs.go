// Package courier provides the courier integrations of the tracking platform
// behind a shared capability interface.
//
// The package includes:
//   - Provider: the capability set all courier integrations implement
//   - ACS, Geniki, ELTA, Speedex and Generic provider variants
//   - Registry: the explicitly constructed, process-wide provider catalog
//
// Each provider knows how to recognize its own voucher format (LooksLike),
// bring a raw voucher into canonical form (Normalize), strictly validate it
// against the order context (Validate), shape its API payloads and fetch
// tracking statuses. Providers never reference each other: adding a courier
// means adding one implementation and one Register call.
//
// Recognition is heuristic and the shapes overlap (a ten-digit voucher fits
// both ACS and Speedex), so matching is split in two phases: a loose shape
// check driving the priority scan, then a strict validation that independently
// rejects phone-number and order-number collisions before a match is accepted.
package courier
