package questdb

import (
	"context"
	"strconv"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
)

const pgWirePort = "8812/tcp"

// TestContainer wraps a QuestDB testcontainer with a connected client.
type TestContainer struct {
	Container testcontainers.Container
	Client    QuestDBClient
	Config    Config
}

// TestContainerConfig holds configuration for the test container
type TestContainerConfig struct {
	Image          string
	StartupTimeout time.Duration
	ExtraEnvVars   map[string]string
}

// DefaultTestContainerConfig returns a default configuration
func DefaultTestContainerConfig() *TestContainerConfig {
	return &TestContainerConfig{
		Image:          "questdb/questdb:8.3.3",
		StartupTimeout: 2 * time.Minute,
		ExtraEnvVars:   map[string]string{},
	}
}

// NewTestContainer starts a QuestDB container and connects a client to its
// postgres wire port.
func NewTestContainer(ctx context.Context, config *TestContainerConfig) (*TestContainer, error) {
	if config == nil {
		config = DefaultTestContainerConfig()
	}

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        config.Image,
			ExposedPorts: []string{pgWirePort},
			Env:          config.ExtraEnvVars,
			WaitingFor: wait.ForListeningPort(nat.Port(pgWirePort)).
				WithStartupTimeout(config.StartupTimeout),
		},
		Started: true,
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, errors.TracerFromError(err)
	}

	port, err := container.MappedPort(ctx, nat.Port(pgWirePort))
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, errors.TracerFromError(err)
	}

	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, errors.TracerFromError(err)
	}

	clientConfig := Config{
		Host:            host,
		Port:            portNum,
		Database:        "qdb",
		Username:        "admin",
		Password:        "quest",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}

	client, err := NewClient(ctx, clientConfig)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestContainer{
		Container: container,
		Client:    client,
		Config:    clientConfig,
	}, nil
}

// Close closes the client and terminates the container.
func (tc *TestContainer) Close(ctx context.Context) error {
	if tc.Client != nil {
		tc.Client.Close()
	}
	if tc.Container != nil {
		if err := tc.Container.Terminate(ctx); err != nil {
			return errors.TracerFromError(err)
		}
	}
	return nil
}
