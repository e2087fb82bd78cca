// Package http provides the inbound HTTP surface of the tracking platform.
// It translates HTTP requests into commands and queries and maps domain
// errors onto status codes; no business logic lives here.
package http

import (
	"errors"
	"net/http"
	"time"

	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/services"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	registerShipmentHandler commands.RegisterShipmentCommandHandler
	getShipmentsHandler     queries.GetShipmentsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	registerShipmentHandler commands.RegisterShipmentCommandHandler,
	getShipmentsHandler queries.GetShipmentsQueryHandler,
) *Server {
	return &Server{
		registerShipmentHandler: registerShipmentHandler,
		getShipmentsHandler:     getShipmentsHandler,
	}
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type newShipmentRequest struct {
	OrderNumber   string `json:"order_number"`
	Voucher       string `json:"voucher"`
	Courier       string `json:"courier,omitempty"`
	BillingPhone  string `json:"billing_phone,omitempty"`
	ShippingPhone string `json:"shipping_phone,omitempty"`
}

type shipmentResponse struct {
	ID                string     `json:"id"`
	OrderNumber       string     `json:"order_number"`
	Voucher           string     `json:"voucher"`
	Courier           string     `json:"courier"`
	Status            string     `json:"status"`
	StatusDescription string     `json:"status_description,omitempty"`
	StatusCheckedAt   *time.Time `json:"status_checked_at,omitempty"`
}

// RegisterRoutes wires the API routes and the tenant gate onto the echo instance.
// Every /api/v1 route runs behind tenant resolution and the per-tenant rate
// limiter; /health stays open for load balancer probes.
func (s *Server) RegisterRoutes(e *echo.Echo, tenantGate *TenantMiddleware, ratePerSecond float64) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", tenantGate.Resolve, newRateLimiter(ratePerSecond))
	api.POST("/shipments", s.CreateShipment)
	api.GET("/shipments", s.GetShipments)
}

// newRateLimiter buckets by tenant and source address so one tenant's burst
// cannot exhaust another tenant's budget.
func newRateLimiter(ratePerSecond float64) echo.MiddlewareFunc {
	burst := int(ratePerSecond * 2)
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(ratePerSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			identifier := c.RealIP()
			if t, ok := tenancy.CurrentTenant(c.Request().Context()); ok {
				identifier = t.ID().String() + ":" + identifier
			}
			return identifier, nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, errorResponse{
				Code:    http.StatusForbidden,
				Message: "Request identity could not be determined",
			})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "Rate limit exceeded",
			})
		},
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateShipment handles POST /api/v1/shipments - registers a voucher for tracking.
func (s *Server) CreateShipment(ctx echo.Context) error {
	var req newShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	shipmentID := kernel.NewUUID()
	cmd, err := commands.NewRegisterShipmentCommand(
		shipmentID,
		req.OrderNumber,
		req.Voucher,
		req.Courier,
		req.BillingPhone,
		req.ShippingPhone,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid shipment data: " + err.Error(),
		})
	}

	if err := s.registerShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapRegistrationError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": shipmentID.String()})
}

// GetShipments handles GET /api/v1/shipments - lists the tenant's shipments.
// An optional ?status= query parameter narrows the result to one status.
func (s *Server) GetShipments(ctx echo.Context) error {
	query, err := queries.NewGetShipmentsQuery(ctx.QueryParam("status"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status filter",
		})
	}

	shipments, err := s.getShipmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, tenancy.ErrTenantNotResolved) {
			return ctx.JSON(http.StatusForbidden, errorResponse{
				Code:    http.StatusForbidden,
				Message: "No tenant could be determined for this request",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve shipments",
		})
	}

	response := make([]shipmentResponse, len(shipments))
	for i, sh := range shipments {
		response[i] = shipmentResponse{
			ID:                sh.ID.String(),
			OrderNumber:       sh.OrderNumber,
			Voucher:           sh.Voucher,
			Courier:           sh.CourierID,
			Status:            sh.Status,
			StatusDescription: sh.StatusDescription,
			StatusCheckedAt:   sh.StatusCheckedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// mapRegistrationError translates registration failures onto status codes.
// Voucher problems are client errors with actionable messages; everything
// else stays opaque.
func (s *Server) mapRegistrationError(ctx echo.Context, err error) error {
	var rejected *commands.VoucherRejectedError

	switch {
	case errors.Is(err, tenancy.ErrTenantNotResolved):
		return ctx.JSON(http.StatusForbidden, errorResponse{
			Code:    http.StatusForbidden,
			Message: "No tenant could be determined for this request",
		})
	case errors.Is(err, services.ErrVoucherFormatUnrecognized):
		return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "Voucher format matches no supported courier",
		})
	case errors.As(err, &rejected):
		return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "Voucher rejected: " + rejected.Reason,
		})
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid shipment data: " + err.Error(),
		})
	default:
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: "Failed to register shipment",
		})
	}
}
