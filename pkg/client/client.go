package client

import (
	"context"
	"doctortravel/pkg/contracts"
	"doctortravel/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client holds the connections shared by every repository of a service.
type Client struct {
	Mongo    *mongo.Client
	Postgres *gorm.DB
	Redis    *redis.Client
}

type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetPostgres(log *logger.Logger, opts PostgresOptions) {
	db, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to open PostgreSQL", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to obtain PostgreSQL handle", "error", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping PostgreSQL", "error", err)
	}

	log.Info("Successfully connected to PostgreSQL")
	c.Postgres = db
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int, connTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
	if c.Postgres != nil {
		if sqlDB, err := c.Postgres.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Failed to close PostgreSQL", "error", err)
			}
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}
}

// HealthChecks returns a readiness probe for every connection that is set.
func (c *Client) HealthChecks() []contracts.HealthCheck {
	var checks []contracts.HealthCheck
	if c.Mongo != nil {
		checks = append(checks, contracts.HealthCheck{Name: "mongo", Ping: func(ctx context.Context) error {
			return c.Mongo.Ping(ctx, nil)
		}})
	}
	if c.Postgres != nil {
		checks = append(checks, contracts.HealthCheck{Name: "postgres", Ping: func(ctx context.Context) error {
			sqlDB, err := c.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if c.Redis != nil {
		checks = append(checks, contracts.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}
