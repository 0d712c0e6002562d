package container

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"admin/access/internal/access"
	"admin/access/internal/client"
	"admin/access/internal/config"
	"admin/access/internal/domain"
	"admin/access/internal/metric"
	"admin/access/internal/queue"
	"admin/access/internal/repository"
	"admin/access/internal/server"
	"admin/access/internal/service"
	"admin/access/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// AccessStack is everything needed to generate access without sessions:
// the generator, the core routes every router starts with and the database
// pool when menus come from postgres.
type AccessStack struct {
	Mode       domain.AccessMode
	Generator  *access.Generator
	CoreRoutes []domain.RouteNode

	db *pgxpool.Pool
}

// Close releases the database pool, if any.
func (a *AccessStack) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// NewAccessStack builds the registries, converter, menu source and static
// route trees from cfg.
func NewAccessStack(ctx context.Context, cfg *config.Config, metrics *metric.Metrics) (*AccessStack, error) {
	mode, err := domain.ParseAccessMode(cfg.Access.Mode)
	if err != nil {
		return nil, err
	}

	pages := append([]string(nil), cfg.Access.Views...)
	if cfg.Access.ViewsDir != "" {
		scanned, err := access.ScanPages(os.DirFS(cfg.Access.ViewsDir), ".")
		if err != nil {
			return nil, err
		}
		pages = append(pages, scanned...)
	}

	layouts := cfg.Access.LayoutMap()
	if len(layouts) == 0 {
		layouts = access.DefaultLayouts()
	}

	registries := access.NewRegistries(layouts, pages, cfg.Access.FallbackPage)
	log.Infof("✅ Registered %d pages and %d layouts", len(registries.Pages()), len(layouts))

	converter := access.NewConverter(registries, log.StandardLogger(), metrics)

	stack := &AccessStack{Mode: mode}

	var fetcher access.MenuFetcher
	switch cfg.Access.MenuSource {
	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		stack.db = db

		repo := repository.NewMenuRepository(db)
		if mode == domain.AccessModeBackend {
			if err := repo.EnsureSchema(ctx); err != nil {
				db.Close()
				return nil, err
			}
			log.Info("✅ Connected to PostgreSQL successfully")
		}
		fetcher = repo
	default:
		fetcher = client.NewMenuClient(cfg.Backend)
	}

	var routes []domain.RouteNode
	if cfg.Access.RoutesFile != "" {
		menus, err := access.LoadMenuFile(cfg.Access.RoutesFile)
		if err != nil {
			stack.Close()
			return nil, err
		}
		routes = converter.ConvertRoutes(menus)
	}

	if cfg.Access.CoreRoutes != "" {
		menus, err := access.LoadMenuFile(cfg.Access.CoreRoutes)
		if err != nil {
			stack.Close()
			return nil, err
		}
		stack.CoreRoutes = converter.ConvertRoutes(menus)
	}

	stack.Generator = access.NewGenerator(access.Options{
		Converter: converter,
		Fetcher:   fetcher,
		Routes:    routes,
		Forbidden: access.ForbiddenPage(cfg.Access.ForbiddenPage),
		Logger:    log.StandardLogger(),
		Metrics:   metrics,
	})

	return stack, nil
}

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Registry     *prometheus.Registry
	Metrics      *metric.Metrics
	Access       *AccessStack
	Queue        queue.Queue
	StateManager state.AccessStateManager
	Service      *service.Service
	Server       *server.Server

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	}
	container.Metrics = metric.NewMetrics(container.Registry)

	stack, err := NewAccessStack(ctx, cfg, container.Metrics)
	if err != nil {
		return nil, err
	}
	container.Access = stack

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		stack.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")
	container.redis = rdb

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis.ConsumerGroup)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue

	container.StateManager = state.NewRedisStateManager(rdb, time.Duration(cfg.Redis.SessionTTL)*time.Second)

	container.Service = service.NewService(
		stack.Generator,
		redisQueue,
		container.StateManager,
		stack.CoreRoutes,
		stack.Mode,
		container.Metrics,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	container.Server = server.New(
		container.Service,
		server.WithPort(cfg.Server.Port),
		server.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout)*time.Second),
		server.WithRegistry(container.Registry),
	)

	return container, nil
}

// Run serves the API and processes queued tasks until ctx is canceled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Serve(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Server.Workers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Access != nil {
		c.Access.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
