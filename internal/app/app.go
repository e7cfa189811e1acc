package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/bookstore/internal/adapters/httpapi"
	sqliteadapter "github.com/atvirokodosprendimai/bookstore/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/bookstore/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/bookstore/internal/core/usecase"
	"github.com/atvirokodosprendimai/bookstore/internal/observability/logging"
	"github.com/atvirokodosprendimai/bookstore/internal/observability/metrics"
	"github.com/atvirokodosprendimai/bookstore/migrations"
)

type Config struct {
	Addr          string
	DBPath        string
	EnableMetrics bool
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config) (*http.Server, io.Closer, error) {
	logger := logging.WithComponent("app")

	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	version, err := migrations.Version(migrateCtx, writeSQLDB)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info().Str("db_path", cfg.DBPath).Int64("schema_version", version).Msg("database ready")

	bookService := usecase.NewBookService(sqliteadapter.NewBookRepository(db))
	auditService := usecase.NewAuditService(sqliteadapter.NewBookEventRepository(db))

	opts := []httpapi.Option{
		httpapi.WithReadiness(func(ctx context.Context) (int64, error) {
			return migrations.Version(ctx, writeSQLDB)
		}),
	}
	if cfg.EnableMetrics {
		opts = append(opts, httpapi.WithMetrics(metrics.New()))
	}
	handler := httpapi.NewHandler(bookService, auditService, opts...)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{db}}, nil
}
