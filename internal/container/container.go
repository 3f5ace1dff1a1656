package container

import (
	"context"
	"fmt"
	"io"
	"sync"

	"furniture/admin/internal/cli"
	"furniture/admin/internal/client"
	"furniture/admin/internal/config"
	"furniture/admin/internal/queue"
	"furniture/admin/internal/repository"
	"furniture/admin/internal/service"
	"furniture/admin/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.AdminAPI
	Sessions session.Store
	Queue    queue.Queue

	Service *service.Service
	App     *cli.App

	dbOnce sync.Once
	db     *pgxpool.Pool
	dbErr  error
	redis  *redis.Client
}

// New creates a new container with all dependencies initialized. The audit
// database is only opened when an audit command asks for it.
func New(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Debug("✅ Connected to Redis successfully")
	container.redis = rdb

	container.Sessions = session.NewRedisStore(rdb, cfg.Session.Profile, cfg.Session.TTLDuration())
	container.Client = client.NewAdminAPI(cfg.API)

	var publisher service.Publisher
	if cfg.Audit.Enabled {
		redisQueue := queue.NewRedisQueue(rdb, cfg.Redis)
		container.Queue = redisQueue
		publisher = redisQueue
	}

	container.Service = service.NewService(container.Client, container.Sessions, publisher)

	var audit cli.AuditProvider
	if cfg.Audit.Enabled {
		audit = container.auditWorker
	}

	container.App = cli.New(
		container.Service,
		audit,
		cfg.Audit.Workers,
		session.Credentials{Phone: cfg.Session.Phone, Password: cfg.Session.Password},
		in,
		out,
	)

	return container, nil
}

func (c *Container) auditWorker(ctx context.Context) (*service.AuditWorker, error) {
	c.dbOnce.Do(func() {
		db, err := pgxpool.New(ctx, c.Config.Database.DSN())
		if err != nil {
			c.dbErr = fmt.Errorf("failed to open audit database: %w", err)
			return
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			c.dbErr = fmt.Errorf("failed to connect to audit database: %w", err)
			return
		}
		log.Debug("✅ Connected to audit database")
		c.db = db
	})
	if c.dbErr != nil {
		return nil, c.dbErr
	}

	repo := repository.NewAuditRepository(c.db)
	return service.NewAuditWorker(c.Queue, repo, c.Config.Redis.MinIdleTime), nil
}

// Run executes one command line
func (c *Container) Run(ctx context.Context, args []string) error {
	return c.App.Run(ctx, args)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
