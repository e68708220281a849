package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/ai"
	"shop-backoffice/internal/config"
	"shop-backoffice/internal/core"
	"shop-backoffice/internal/db"
	"shop-backoffice/internal/notify"
	"shop-backoffice/migrations"
)

// Runtime is a wired ApplicationService plus the resources behind it.
type Runtime struct {
	Service ApplicationService
	Pool    *pgxpool.Pool

	dispatcher     *notify.Dispatcher
	closeTransport func() error
}

// Bootstrap connects to the database, applies migrations, and wires every
// service. The caller must Close the returned Runtime.
func Bootstrap(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Runtime, error) {
	pool, err := db.NewPool(ctx, cfg.DB.URL, cfg.DB.MaxConns)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, err
	}

	transport, closeTransport, err := notify.NewTransport(ctx, cfg.Notify, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set up notifications: %w", err)
	}
	dispatcher := notify.NewDispatcher(transport, cfg.Notify.Workers, cfg.Notify.QueueSize, logger)

	ledger := core.NewLedger(pool)
	inventory := core.NewInventoryService(pool, ledger)
	sales := core.NewSaleService(pool, inventory, ledger, core.NewInvoiceNumbers(), logger)

	deps := Dependencies{
		Inventory:   inventory,
		Sales:       sales,
		Ledger:      ledger,
		Expenses:    core.NewExpenseService(pool),
		Returns:     core.NewReturnService(pool, inventory, logger),
		Reports:     core.NewReportingService(pool, inventory, sales),
		Notifier:    dispatcher,
		Logger:      logger,
		PhoneRegion: cfg.Notify.DefaultRegion,
		Shop: ShopInfo{
			Name:              cfg.ShopName,
			Currency:          cfg.Currency,
			LowStockThreshold: cfg.LowStockThreshold,
		},
	}
	// Leave Agent as a nil interface without a key, not a typed nil.
	if cfg.AI.APIKey != "" {
		deps.Agent = ai.NewAgent(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		logger.Warn("OPENAI_API_KEY is not set; chat answers keyword questions only")
	}

	return &Runtime{
		Service:        NewAppService(deps),
		Pool:           pool,
		dispatcher:     dispatcher,
		closeTransport: closeTransport,
	}, nil
}

// Close drains queued notifications, then releases the transport and pool.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if err := r.dispatcher.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to drain notifications: %w", err))
	}
	if r.closeTransport != nil {
		if err := r.closeTransport(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close notification transport: %w", err))
		}
	}
	r.Pool.Close()
	return errors.Join(errs...)
}
