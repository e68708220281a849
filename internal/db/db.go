package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a connection pool and verifies it with a ping.
// maxConns <= 0 keeps the pgxpool default.
func NewPool(ctx context.Context, connStr string, maxConns int32) (*pgxpool.Pool, error) {
	config, err := poolConfig(connStr, maxConns)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// poolConfig parses connStr and pins the session time zone to the process
// zone, so SQL date bucketing agrees with "today" computed in Go. A timezone
// given in the connection string wins.
func poolConfig(connStr string, maxConns int32) (*pgxpool.Config, error) {
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if _, set := config.ConnConfig.RuntimeParams["timezone"]; !set {
		if zone := localZoneName(); zone != "" {
			config.ConnConfig.RuntimeParams["timezone"] = zone
		}
	}
	return config, nil
}

// localZoneName returns the IANA name of time.Local, or "" when it cannot be
// named (the server default is kept then).
func localZoneName() string {
	name := time.Local.String()
	if name == "Local" {
		name = ""
		if tz, ok := os.LookupEnv("TZ"); ok {
			name = strings.TrimPrefix(tz, ":")
			if name == "" {
				name = "UTC"
			}
		} else if target, err := os.Readlink("/etc/localtime"); err == nil {
			if i := strings.LastIndex(target, "zoneinfo/"); i >= 0 {
				name = target[i+len("zoneinfo/"):]
			}
		}
	}
	if name == "" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}
