package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/studyhub/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultMariaDBImage = "mariadb:11.4"
	DefaultRedisImage   = "redis:7-alpine"

	mariaDBDatabase = "studyhub"
	mariaDBUser     = "studyhub"
	mariaDBPassword = "studyhub-test"
)

// Containers holds the disposable service containers a study backend needs
type Containers struct {
	DB    testcontainers.Container
	Redis testcontainers.Container

	dbHost string
	dbPort string
	redis  string
}

// StartContainers starts MariaDB, and Redis when withRedis is set. Whatever started
// is terminated again on error.
func StartContainers(ctx context.Context, dbImage string, withRedis bool) (*Containers, error) {
	if dbImage == "" {
		dbImage = DefaultMariaDBImage
	}
	tc := &Containers{}

	port, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, fmt.Errorf("create DB port: %w", err)
	}
	db, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"MARIADB_DATABASE":      mariaDBDatabase,
				"MARIADB_USER":          mariaDBUser,
				"MARIADB_PASSWORD":      mariaDBPassword,
				"MARIADB_ROOT_PASSWORD": mariaDBPassword,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(port),
				wait.ForLog("ready for connections").WithOccurrence(2),
			).WithDeadline(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start MariaDB: %w", err)
	}
	tc.DB = db

	if tc.dbHost, err = db.Host(ctx); err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("MariaDB host: %w", err)
	}
	mapped, err := db.MappedPort(ctx, port)
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("MariaDB port: %w", err)
	}
	tc.dbPort = mapped.Port()

	if !withRedis {
		return tc, nil
	}

	redisPort, _ := nat.NewPort("tcp", "6379")
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        DefaultRedisImage,
			ExposedPorts: []string{string(redisPort)},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("start Redis: %w", err)
	}
	tc.Redis = rc

	host, err := rc.Host(ctx)
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("Redis host: %w", err)
	}
	mappedRedis, err := rc.MappedPort(ctx, redisPort)
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("Redis port: %w", err)
	}
	tc.redis = fmt.Sprintf("redis://%s:%s/0", host, mappedRedis.Port())

	return tc, nil
}

// Config returns a configuration pointing at the started containers
func (tc *Containers) Config() *config.Config {
	return &config.Config{
		DBType:            "mariadb",
		DBHost:            tc.dbHost,
		DBPort:            tc.dbPort,
		DBDatabase:        mariaDBDatabase,
		DBUser:            mariaDBUser,
		DBPassword:        mariaDBPassword,
		DBConnectionLimit: 5,
		RedisURL:          tc.redis,
		CacheTTLSeconds:   60,
	}
}

// Terminate stops every started container, reporting the first failure
func (tc *Containers) Terminate(ctx context.Context) error {
	var first error
	for _, c := range []testcontainers.Container{tc.Redis, tc.DB} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// StartMariaDB runs disposable containers for a test and returns a config pointing at them.
// They are terminated when the test ends.
func StartMariaDB(t testing.TB, withRedis bool) *config.Config {
	t.Helper()
	ctx := context.Background()

	tc, err := StartContainers(ctx, DefaultMariaDBImage, withRedis)
	if err != nil {
		t.Fatalf("Failed to start containers: %v", err)
	}
	t.Cleanup(func() {
		if err := tc.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate containers: %v", err)
		}
	})
	return tc.Config()
}
