package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage          = "postgres:17.0-alpine3.20"
	defaultStartupTimeout = 1 * time.Minute
)

type Config struct {
	ImageName string
	Database  string
	Username  string
	Password  string
}

type Option func(*Config)

func WithImageName(image string) Option {
	return func(c *Config) { c.ImageName = image }
}

func WithDatabase(db string) Option {
	return func(c *Config) { c.Database = db }
}

func WithAuth(user, password string) Option {
	return func(c *Config) {
		c.Username = user
		c.Password = password
	}
}

// Container is a throwaway Postgres with a ready pgx pool.
type Container struct {
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	dsn       string
}

func NewContainer(ctx context.Context, opts ...Option) (*Container, error) {
	cfg := &Config{
		ImageName: defaultImage,
		Database:  "farmconnect-test",
		Username:  "farmconnect",
		Password:  "farmconnect",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pgC, err := tcpostgres.Run(ctx,
		cfg.ImageName,
		tcpostgres.WithDatabase(cfg.Database),
		tcpostgres.WithUsername(cfg.Username),
		tcpostgres.WithPassword(cfg.Password),
		tc.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(defaultStartupTimeout),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start postgres container")
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, errors.Wrap(err, "postgres connection string")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, errors.Wrap(err, "create pgx pool")
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		if time.Now().After(deadline) {
			pool.Close()
			_ = pgC.Terminate(ctx)
			return nil, errors.Wrap(err, "ping postgres")
		}
		time.Sleep(200 * time.Millisecond)
	}

	return &Container{container: pgC, pool: pool, dsn: dsn}, nil
}

func (c *Container) Pool() *pgxpool.Pool { return c.pool }

func (c *Container) DSN() string { return c.dsn }

func (c *Container) Terminate(ctx context.Context) error {
	c.pool.Close()
	return c.container.Terminate(ctx)
}
