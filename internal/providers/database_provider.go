package providers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkin-importer/internal/structures"

	_ "github.com/lib/pq"
)

var ErrDatabaseNotConfigured = errors.New("database dsn not configured")

const pingTimeout = 5 * time.Second

// DatabaseProviderInterface hands out one shared pool, opened on first use,
// so runs on a seed file and the memory store never dial postgres.
type DatabaseProviderInterface interface {
	DB(ctx context.Context) (*sql.DB, error)
	Close() error
}

type DatabaseProvider struct {
	conf   structures.DatabaseConfig
	logger Logger
	open   func(driver, dsn string) (*sql.DB, error)

	mu sync.Mutex
	db *sql.DB
}

func NewDatabaseProvider(conf *structures.Config, logger Logger) DatabaseProviderInterface {
	return &DatabaseProvider{conf: conf.Database, logger: logger, open: sql.Open}
}

func (p *DatabaseProvider) DB(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if p.conf.DSN == "" {
		return nil, ErrDatabaseNotConfigured
	}

	db, err := p.open("postgres", p.conf.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if p.conf.MaxOpenConns > 0 {
		db.SetMaxOpenConns(p.conf.MaxOpenConns)
	}
	if p.conf.MaxIdleConns > 0 {
		db.SetMaxIdleConns(p.conf.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p.logger.Infof(TypeStore, "Database connected (max open %d, max idle %d)", p.conf.MaxOpenConns, p.conf.MaxIdleConns)
	p.db = db
	return db, nil
}

func (p *DatabaseProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
