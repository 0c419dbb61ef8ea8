package testsupport

import (
	"context"
	"testing"

	"github.com/ferdian3456/devblog/internal/config"
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"
	"github.com/ferdian3456/devblog/internal/exception"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const TestJWTSecret = "test-secret-key-for-jwt-token-generation"

type TestApp struct {
	App     *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Config  *koanf.Koanf
}

// Connect migrates the database and opens the pool and redis client used by tests.
func Connect(ctx context.Context, t *testing.T, infra *TestInfra) (*pgxpool.Pool, *redis.Client) {
	err := config.RunMigration(infra.PgURL)
	require.NoError(t, err, "migrations should run")

	dbPool, err := pgxpool.New(ctx, infra.PgURL)
	require.NoError(t, err, "failed to connect to test db")
	t.Cleanup(dbPool.Close)

	redisClient := redis.NewClient(&redis.Options{
		Addr: infra.RedisURL,
		DB:   0,
	})
	require.NoError(t, redisClient.Ping(ctx).Err(), "failed to connect to test redis")
	t.Cleanup(func() {
		_ = redisClient.Close()
	})

	return dbPool, redisClient
}

// SetupTestApp builds the full HTTP application against the test containers.
// Object storage and SMTP are left unconfigured.
func SetupTestApp(ctx context.Context, t *testing.T, infra *TestInfra) *TestApp {
	t.Log("Setting up test application...")

	dbPool, redisClient := Connect(ctx, t, infra)

	testConfig := koanf.New(".")
	_ = testConfig.Set("JWT_SECRET_KEY", TestJWTSecret)
	_ = testConfig.Set("MINIO_HTTP", "http://")
	_ = testConfig.Set("MINIO_URL", "localhost:9000")
	_ = testConfig.Set("MINIO_BUCKET_NAME", "devblog-test")
	_ = testConfig.Set("RATE_LIMIT_MAX", 100000)
	_ = testConfig.Set("AUTH_RATE_LIMIT_MAX", 100000)

	zapLogger := zap.NewNop()

	fiberApp := config.NewFiber(zapLogger)
	fiberApp.Use(middleware.TraceLoggerMiddleware(zapLogger))
	fiberApp.Use(exception.Recovery(zapLogger))

	config.Server(&config.ServerConfig{
		Router:  fiberApp,
		DB:      dbPool,
		DBCache: redisClient,
		Log:     zapLogger,
		Config:  testConfig,
	})

	return &TestApp{
		App:     fiberApp,
		DB:      dbPool,
		DBCache: redisClient,
		Config:  testConfig,
	}
}
