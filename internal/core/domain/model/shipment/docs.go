// Package shipment implements the Shipment aggregate and its delivery status
// state machine.
//
// A shipment is always owned by exactly one tenant and embeds the voucher that
// was accepted for it, together with the id of the courier provider the voucher
// resolved to. Status changes only arrive through ApplyTrackingStatus, which
// enforces the Registered → InTransit → Delivered/Failed workflow.
package shipment
