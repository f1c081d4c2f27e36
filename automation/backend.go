package automation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jfc974-droid/order-management-system/config"
	"github.com/jfc974-droid/order-management-system/gworkspace"
	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/orders/store"
	"github.com/jfc974-droid/order-management-system/store/sqlite"
	"github.com/jfc974-droid/order-management-system/store/xlsx"
)

// =============================================================================
// BACKENDS
// =============================================================================

// Backend bundles the workbook and document collaborators chosen by
// config.Backend.
type Backend struct {
	Workbook  orders.Workbook
	Documents orders.Documents
	Files     orders.Files

	closers []io.Closer
}

// Close releases file handles and database connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenBackend connects to the configured backend. in and out are used only
// by the Google installed-app flow to prompt for an authorization code.
//
// Non-Google backends pair their workbook with an in-memory drive holding
// the default order template, so order forms can still be exported.
func OpenBackend(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendGoogle:
		creds := gworkspace.Credentials{
			ServiceAccountFile: cfg.Credentials.ServiceAccount,
			ClientSecretFile:   cfg.Credentials.ClientSecret,
			TokenFile:          cfg.Credentials.Token,
			In:                 in,
			Out:                out,
		}
		client, err := creds.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("google credentials: %w", err)
		}
		wb, err := gworkspace.OpenWorkbook(ctx, client, cfg.Spreadsheet.ID, cfg.Spreadsheet.Name)
		if err != nil {
			return nil, err
		}
		drive, err := gworkspace.NewDrive(ctx, client)
		if err != nil {
			return nil, err
		}
		log.Info("connected", zap.String("spreadsheet", wb.ID()))
		return &Backend{Workbook: wb, Documents: drive, Files: drive}, nil

	case config.BackendSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info("opened", zap.String("path", cfg.SQLite.Path))
		return withMemoryDrive(cfg, db, db), nil

	case config.BackendXLSX:
		wb, err := xlsx.Open(cfg.XLSX.Path)
		if err != nil {
			return nil, err
		}
		log.Info("opened", zap.String("path", cfg.XLSX.Path))
		return withMemoryDrive(cfg, wb, wb), nil

	case config.BackendMemory:
		return withMemoryDrive(cfg, store.NewMemory(), nil), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}

func withMemoryDrive(cfg config.Config, wb orders.Workbook, closer io.Closer) *Backend {
	drive := store.NewDrive()
	drive.AddDocument(cfg.Template.Name, store.OrderTemplate(cfg.Template.MaxItems))
	b := &Backend{Workbook: wb, Documents: drive, Files: drive}
	if closer != nil {
		b.closers = append(b.closers, closer)
	}
	return b
}

// Runner returns a Runner over the backend.
func (b *Backend) Runner(cfg config.Config, log *zap.Logger) *Runner {
	return New(b.Workbook, b.Documents, b.Files, cfg, log)
}
