package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/you-humble/farm-connect/platform/logger"
)

const (
	defaultImage          = "mongo:8.0"
	defaultStartupTimeout = 1 * time.Minute

	mongoPort = "27017/tcp"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type Config struct {
	ImageName string
	Database  string
	Username  string
	Password  string
	Logger    Logger
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

func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Container is a throwaway MongoDB with a connected client.
type Container struct {
	container testcontainers.Container
	client    *mongo.Client
	cfg       *Config
	uri       string
}

func NewContainer(ctx context.Context, opts ...Option) (*Container, error) {
	cfg := &Config{
		ImageName: defaultImage,
		Database:  "farmconnect-test",
		Username:  "root",
		Password:  "root",
		Logger:    logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	container, err := start(ctx, cfg)
	if err != nil {
		return nil, err
	}

	host, port, err := endpoint(ctx, container)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	uri := fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.Username, cfg.Password, host, port, cfg.Database)

	client, err := connect(ctx, uri)
	if err != nil {
		if terr := container.Terminate(ctx); terr != nil {
			cfg.Logger.Error(ctx, "terminate mongo container", zap.Error(terr))
		}
		return nil, err
	}

	cfg.Logger.Info(ctx, "mongo container started", zap.String("host", host), zap.String("port", port))

	return &Container{container: container, client: client, cfg: cfg, uri: uri}, nil
}

func (c *Container) Client() *mongo.Client { return c.client }
func (c *Container) URI() string           { return c.uri }

func (c *Container) Database() *mongo.Database { return c.client.Database(c.cfg.Database) }

func (c *Container) Collection(name string) *mongo.Collection {
	return c.Database().Collection(name)
}

// Truncate deletes every document in the named collections and keeps their indexes.
func (c *Container) Truncate(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, err := c.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return errors.Wrapf(err, "truncate %s", name)
		}
	}
	return nil
}

func (c *Container) Terminate(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		c.cfg.Logger.Error(ctx, "disconnect mongo client", zap.Error(err))
	}

	if err := c.container.Terminate(ctx); err != nil {
		c.cfg.Logger.Error(ctx, "terminate mongo container", zap.Error(err))
		return err
	}

	return nil
}
