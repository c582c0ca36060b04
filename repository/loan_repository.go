package repository

import (
	"context"
	"fmt"

	"mortgage-engine/domain"
)

type LoanRepository interface {
	Save(ctx context.Context, input domain.LoanInput, result domain.LoanResult) error
}

// LeadRepository records every lead submission together with its outcome.
type LeadRepository interface {
	SaveLead(ctx context.Context, record domain.LeadRecord) error
}

// Store is the persistence used by the service: quotes, leads and the lead
// history of a listing.
type Store interface {
	LoanRepository
	LeadRepository
	LeadsForListing(ctx context.Context, publicID string) ([]domain.LeadRecord, error)
	Close() error
}

// Open returns the store for driver. "memory" keeps everything in process
// and ignores dsn.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "memory":
		return NewLoanRepositoryMemory(), nil
	case "sqlite", "postgres":
		store, err := NewSQLStore(driver, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
