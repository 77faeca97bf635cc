package mongo

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func start(ctx context.Context, cfg *Config) (testcontainers.Container, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: cfg.ImageName,
			Env: map[string]string{
				"MONGO_INITDB_ROOT_USERNAME": cfg.Username,
				"MONGO_INITDB_ROOT_PASSWORD": cfg.Password,
				"MONGO_INITDB_DATABASE":      cfg.Database,
			},
			ExposedPorts:       []string{mongoPort},
			WaitingFor:         wait.ForListeningPort(mongoPort).WithStartupTimeout(defaultStartupTimeout),
			HostConfigModifier: autoRemove,
		},
		Started: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start mongo container")
	}

	return c, nil
}

func autoRemove(hc *container.HostConfig) {
	hc.AutoRemove = true
}

func endpoint(ctx context.Context, c testcontainers.Container) (host, port string, err error) {
	host, err = c.Host(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "container host")
	}

	mapped, err := c.MappedPort(ctx, mongoPort)
	if err != nil {
		return "", "", errors.Wrap(err, "mapped port")
	}

	return host, mapped.Port(), nil
}

func connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}

	return client, nil
}
