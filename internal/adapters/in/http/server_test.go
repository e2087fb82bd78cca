package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/postgres/shipmentrepo"
	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/courier"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"
	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memTenantStore backs the resolver with a fixed tenant catalog.
type memTenantStore struct {
	tenants []*tenant.Tenant
}

func (s *memTenantStore) Add(_ context.Context, t *tenant.Tenant) error {
	s.tenants = append(s.tenants, t)
	return nil
}

func (s *memTenantStore) Update(_ context.Context, _ *tenant.Tenant) error { return nil }

func (s *memTenantStore) find(match func(*tenant.Tenant) bool) (*tenant.Tenant, error) {
	for _, t := range s.tenants {
		if match(t) && t.IsOperational() {
			return t, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("tenant", "")
}

func (s *memTenantStore) FindOperationalByID(_ context.Context, id kernel.UUID) (*tenant.Tenant, error) {
	return s.find(func(t *tenant.Tenant) bool { return t.ID().IsEqual(id) })
}

func (s *memTenantStore) FindOperationalBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	return s.find(func(t *tenant.Tenant) bool { return t.Subdomain() == subdomain })
}

func (s *memTenantStore) FindOperationalByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	return s.find(func(t *tenant.Tenant) bool { return t.PrimaryDomain() == domain })
}

type memAuditSink struct{ events []ports.AuditEvent }

func (a *memAuditSink) Record(_ context.Context, event ports.AuditEvent) error {
	a.events = append(a.events, event)
	return nil
}

type funcShipmentUoWFactory func() commands.ShipmentUoW

func (f funcShipmentUoWFactory) Create() commands.ShipmentUoW { return f() }

type stubFetcher struct{}

func (stubFetcher) FetchStatus(_ context.Context, courierID, voucher string) (courier.StatusResult, error) {
	return courier.StatusResult{CourierID: courierID, Voucher: voucher, State: courier.StatePending}, nil
}

type apiFixture struct {
	echo   *echo.Echo
	acme   *tenant.Tenant
	globex *tenant.Tenant
	audit  *memAuditSink
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	return newAPIFixtureWithRate(t, 100)
}

func newAPIFixtureWithRate(t *testing.T, ratePerSecond float64) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&shipmentrepo.ShipmentDTO{}))

	acme, err := tenant.NewTenant(kernel.NewUUID(), "Acme", "acme", time.Now())
	require.NoError(t, err)
	globex, err := tenant.NewTenant(kernel.NewUUID(), "Globex", "globex", time.Now())
	require.NoError(t, err)
	store := &memTenantStore{}
	require.NoError(t, store.Add(context.Background(), acme))
	require.NoError(t, store.Add(context.Background(), globex))

	audit := &memAuditSink{}
	logger := zap.NewNop()
	resolver := tenancy.NewResolver(store, nil, nil, audit, logger, false, nil)

	registry := courier.NewRegistry()
	registry.Register(courier.NewACSProvider(stubFetcher{}))
	registry.Register(courier.NewGenikiProvider(stubFetcher{}))
	registry.Register(courier.NewELTAProvider(stubFetcher{}))
	registry.Register(courier.NewSpeedexProvider(stubFetcher{}))
	registry.Register(courier.NewGenericProvider(stubFetcher{}))
	voucherResolver := services.NewVoucherResolver(registry, nil)

	uowFactory := postgres.NewGormUnitOfWorkFactory(db, logger)
	shipmentUoWFactory := funcShipmentUoWFactory(func() commands.ShipmentUoW {
		return uowFactory.Create()
	})

	server := httpadapter.NewServer(
		commands.NewRegisterShipmentCommandHandler(shipmentUoWFactory, voucherResolver),
		queries.NewGetShipmentsQueryHandler(db),
	)

	e := echo.New()
	gate := httpadapter.NewTenantMiddleware(resolver, tenancy.NewScope(logger), logger)
	server.RegisterRoutes(e, gate, ratePerSecond)

	return &apiFixture{echo: e, acme: acme, globex: globex, audit: audit}
}

func (f *apiFixture) do(method, target, host, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Host = host
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/health", "lb-probe.internal", "")

	assert.Equal(t, http.StatusOK, rec.Code, "health stays outside the tenant gate")
}

func TestServer_CreateShipment(t *testing.T) {
	t.Run("accepted voucher returns the new shipment id", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/shipments", "acme.example.com",
			`{"order_number":"S-1042","voucher":" 0012345678 "}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created["id"])
	})

	t.Run("unrecognized voucher is a 422", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/shipments", "acme.example.com",
			`{"order_number":"S-1","voucher":"!!"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("phone collision reason is surfaced", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/shipments", "acme.example.com",
			`{"order_number":"S-1","voucher":"0021012345","billing_phone":"+30 002101234567"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["message"], "phone")
	})

	t.Run("missing voucher is a 400", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/shipments", "acme.example.com",
			`{"order_number":"S-1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown host is refused before the handler", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/shipments", "ghost.example.com",
			`{"order_number":"S-1","voucher":"0012345678"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestServer_RateLimiting(t *testing.T) {
	t.Run("buckets are per tenant, not per source address", func(t *testing.T) {
		f := newAPIFixtureWithRate(t, 1) // burst of 2

		for i := 0; i < 2; i++ {
			rec := f.do(http.MethodGet, "/api/v1/shipments", "acme.example.com", "")
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := f.do(http.MethodGet, "/api/v1/shipments", "acme.example.com", "")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Rate limit exceeded", resp["message"])

		// Same client address, different tenant: an untouched bucket.
		rec = f.do(http.MethodGet, "/api/v1/shipments", "globex.example.com", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("sub-unit rates still admit one request", func(t *testing.T) {
		f := newAPIFixtureWithRate(t, 0.2)

		rec := f.do(http.MethodGet, "/api/v1/shipments", "acme.example.com", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(http.MethodGet, "/api/v1/shipments", "acme.example.com", "")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestServer_GetShipments(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/shipments", "acme.example.com",
		`{"order_number":"S-1042","voucher":"0012345678"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("lists the tenant's shipments", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/shipments", "acme.example.com", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var shipments []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shipments))
		require.Len(t, shipments, 1)
		assert.Equal(t, "0012345678", shipments[0]["voucher"])
		assert.Equal(t, "acs", shipments[0]["courier"])
		assert.Equal(t, "Registered", shipments[0]["status"])
	})

	t.Run("status filter applies", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/shipments?status=Delivered", "acme.example.com", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var shipments []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shipments))
		assert.Empty(t, shipments)
	})

	t.Run("invalid status filter is a 400", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/shipments?status=Teleported", "acme.example.com", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
