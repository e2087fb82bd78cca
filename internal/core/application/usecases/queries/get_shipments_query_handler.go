package queries

import (
	"context"
	"database/sql"

	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShipmentsQueryHandler reads shipment rows for the calling tenant.
// The tenant comes from the request-scoped tenant binding and is applied as a
// WHERE clause on every query; there is no unscoped variant on the read side.
//
// Example:
//
//	handler := NewGetShipmentsQueryHandler(db)
//	query, _ := NewGetShipmentsQuery("")
//
//	shipments, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d shipments tracked\n", len(shipments))
type GetShipmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentsQueryHandler creates a handler for shipment listing queries.
// Requires a GORM database connection for query execution.
func NewGetShipmentsQueryHandler(db *gorm.DB) GetShipmentsQueryHandler {
	return GetShipmentsQueryHandler{db: db}
}

// Handle executes the query for the tenant bound to ctx.
// Results are sorted by shipment ID for consistent output.
func (h GetShipmentsQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentsQuery,
) ([]GetShipmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tenantID, err := tenancy.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			order_number,
			voucher,
			courier_id,
			status,
			status_description,
			status_checked_at
		FROM shipments
		WHERE tenant_id = ?
	`
	args := []any{tenantID.Bytes()}

	if query.StatusFilter() != "" {
		sqlQuery += " AND status = ?"
		args = append(args, query.StatusFilter())
	}
	sqlQuery += " ORDER BY id"

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := make([]GetShipmentsQueryResponse, 0)

	for rows.Next() {
		var resp GetShipmentsQueryResponse
		var id uuid.UUID
		var checkedAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.Voucher,
			&resp.CourierID,
			&resp.Status,
			&resp.StatusDescription,
			&checkedAt,
		)
		if err != nil {
			return nil, err
		}

		shipmentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = shipmentID

		if checkedAt.Valid {
			at := checkedAt.Time
			resp.StatusCheckedAt = &at
		}

		shipments = append(shipments, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shipments, nil
}
