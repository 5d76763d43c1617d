package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"xandar-lab/internal/analytics"
	"xandar-lab/internal/auth"
	"xandar-lab/internal/auth/config"
	"xandar-lab/internal/interview"
	"xandar-lab/internal/jobs"
	"xandar-lab/internal/practice"
	"xandar-lab/internal/shared/eventbus"
	"xandar-lab/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires modules and shared infrastructure with proper lifecycle
// management.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule      *auth.AuthModule
	PracticeModule  *practice.PracticeModule
	AnalyticsModule *analytics.AnalyticsModule
	InterviewModule *interview.InterviewModule
	JobsModule      *jobs.JobsModule

	// Shared infrastructure
	MongoDB  *mongo.Database
	Redis    *redis.Client
	EventBus eventbus.EventBusInterface
	Config   *config.Config
	Logger   logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		Logger:   log,
		EventBus: eventbus.NewEventBus(log),
	}
}

// InitializeInfrastructure stores shared connections. Redis is optional; a
// nil client disables the analytics cache.
func (c *Container) InitializeInfrastructure(mongoDB *mongo.Database, cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Config = cfg
	c.Redis = newRedisClient(cfg)
}

// InitializeModules builds every feature module. Auth comes first because the
// other modules mount behind its middleware.
func (c *Container) InitializeModules() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil || c.Config == nil {
		return fmt.Errorf("infrastructure must be initialized before modules")
	}

	authModule, err := auth.NewAuthModule(c.MongoDB, c.Config, c.EventBus)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule

	practiceModule, err := practice.NewPracticeModule(c.MongoDB, c.EventBus)
	if err != nil {
		return fmt.Errorf("failed to create practice module: %w", err)
	}
	c.PracticeModule = practiceModule

	c.AnalyticsModule = analytics.NewAnalyticsModule(c.MongoDB, c.Redis, c.Logger, c.EventBus)

	interviewModule, err := interview.NewInterviewModule(c.MongoDB, c.EventBus)
	if err != nil {
		return fmt.Errorf("failed to create interview module: %w", err)
	}
	c.InterviewModule = interviewModule

	jobsModule, err := jobs.NewJobsModule(c.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to create jobs module: %w", err)
	}
	c.JobsModule = jobsModule

	return nil
}

// newRedisClient builds a Redis client with conservative pool timeouts.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,

		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		ConnMaxIdleTime: 30 * time.Minute,
		ConnMaxLifetime: time.Hour,
	})
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetPracticeModule returns the practice module instance
func (c *Container) GetPracticeModule() *practice.PracticeModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.PracticeModule
}

// GetAnalyticsModule returns the analytics module instance
func (c *Container) GetAnalyticsModule() *analytics.AnalyticsModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AnalyticsModule
}

// GetInterviewModule returns the interview module instance
func (c *Container) GetInterviewModule() *interview.InterviewModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.InterviewModule
}

// GetJobsModule returns the jobs module instance
func (c *Container) GetJobsModule() *jobs.JobsModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.JobsModule
}

// HealthCheck pings the shared connections.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup shuts modules down in reverse order of initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.InterviewModule != nil {
		c.InterviewModule.Stop()
		c.InterviewModule = nil
	}
	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop auth module: %w", err))
		}
		c.AuthModule = nil
	}
	c.PracticeModule = nil
	c.AnalyticsModule = nil
	c.JobsModule = nil

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
		c.Redis = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down the container with a timeout.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return c.Cleanup(ctx)
}
