package cmd

import (
	"time"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/courierapi"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/postgres/auditrepo"
	redisadapter "tracking/internal/adapters/out/redis"
	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/courier"
	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"
	"tracking/internal/jobs"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *zap.Logger

	uowFactory      *postgres.GormUnitOfWorkFactory
	auditSink       ports.AuditSink
	registry        *courier.Registry
	statusFetcher   courier.StatusFetcher
	voucherResolver services.VoucherResolver
	tenantResolver  *tenancy.Resolver
	scope           *tenancy.Scope
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *goredis.Client, logger *zap.Logger) CompositionRoot {
	auditSink := auditrepo.NewGormAuditSink(gormDB)

	registry := courier.NewRegistry()
	fetcher := courierapi.NewClient(registry, config.CourierBaseURLs, logger)
	registry.Register(courier.NewACSProvider(fetcher))
	registry.Register(courier.NewGenikiProvider(fetcher))
	registry.Register(courier.NewELTAProvider(fetcher))
	registry.Register(courier.NewSpeedexProvider(fetcher))
	registry.Register(courier.NewGenericProvider(fetcher))

	var cache ports.TenantCache
	if redisClient != nil {
		cache = redisadapter.NewTenantCache(redisClient, logger, config.CacheTagsEnabled)
	}
	var cacheTTL *time.Duration
	if ttl := config.CacheTTL; ttl > 0 {
		cacheTTL = &ttl
	}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB, logger)
	tenantRepository := uowFactory.Create().TenantRepository()

	return CompositionRoot{
		config:          config,
		gormDB:          gormDB,
		logger:          logger,
		uowFactory:      uowFactory,
		auditSink:       auditSink,
		registry:        registry,
		statusFetcher:   fetcher,
		voucherResolver: services.NewVoucherResolver(registry, config.CourierPriority),
		tenantResolver: tenancy.NewResolver(
			tenantRepository,
			cache,
			cacheTTL,
			auditSink,
			logger,
			config.Production(),
			nil,
		),
		scope: tenancy.NewScope(logger),
	}
}

func (c *CompositionRoot) CreateRegisterShipmentCommandHandler() commands.RegisterShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterShipmentCommandHandler(f, c.voucherResolver)
}

func (c *CompositionRoot) CreateRefreshTrackingStatusesCommandHandler() commands.RefreshTrackingStatusesCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefreshTrackingStatusesCommandHandler(f, c.statusFetcher, c.auditSink, c.logger)
}

func (c *CompositionRoot) CreateGetShipmentsQueryHandler() queries.GetShipmentsQueryHandler {
	return queries.NewGetShipmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTenantMiddleware() *httpadapter.TenantMiddleware {
	return httpadapter.NewTenantMiddleware(c.tenantResolver, c.scope, c.logger)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateRegisterShipmentCommandHandler(),
		c.CreateGetShipmentsQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRefreshTrackingStatusesCommandHandler(),
		jobs.TrackingPollConfig{
			Schedule:    c.config.PollSchedule,
			BatchSize:   c.config.PollBatchSize,
			Concurrency: c.config.PollConcurrency,
			CallTimeout: c.config.PollCallTimeout,
		},
		c.logger,
	)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}
