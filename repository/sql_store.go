package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"mortgage-engine/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quote (
    id TEXT PRIMARY KEY,
    amount DOUBLE PRECISION NOT NULL,
    interest_rate DOUBLE PRECISION NOT NULL,
    term_years INTEGER NOT NULL,
    monthly_payment DOUBLE PRECISION NOT NULL,
    total_payment DOUBLE PRECISION NOT NULL,
    total_interest DOUBLE PRECISION NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lead (
    id TEXT PRIMARY KEY,
    public_id TEXT NOT NULL,
    tenant_name TEXT NOT NULL,
    tenant_email TEXT NOT NULL,
    tenant_phone TEXT,
    move_in_date TEXT,
    monthly_budget DOUBLE PRECISION,
    occupants INTEGER,
    has_pets BOOLEAN NOT NULL DEFAULT FALSE,
    message TEXT,
    status TEXT NOT NULL CHECK (status IN ('delivered', 'failed')),
    status_code INTEGER,
    submitted_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lead_public_id ON lead(public_id);
`

// SQLStore persists quotes and leads through database/sql. Driver is
// "sqlite" (modernc.org/sqlite) or "postgres" (lib/pq).
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore opens the database and creates the schema.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "sqlite":
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == "sqlite" {
		// una sola conexión: cada conexión a :memory: es una base distinta
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save stores a quote.
func (s *SQLStore) Save(ctx context.Context, input domain.LoanInput, result domain.LoanResult) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO quote (id, amount, interest_rate, term_years, monthly_payment, total_payment, total_interest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), result.QuoteID, input.Amount, input.InterestRate, input.TermYears,
		result.MonthlyPayment, result.TotalPayment, result.TotalInterest,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// SaveLead stores a lead submission and its delivery outcome.
func (s *SQLStore) SaveLead(ctx context.Context, record domain.LeadRecord) error {
	l := record.Lead
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO lead (id, public_id, tenant_name, tenant_email, tenant_phone, move_in_date,
			monthly_budget, occupants, has_pets, message, status, status_code, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), record.ID, l.PublicID, l.TenantName, l.TenantEmail, l.TenantPhone, l.MoveInDate,
		l.MonthlyBudget, l.Occupants, l.HasPets, l.Message, record.Status, record.StatusCode,
		record.SubmittedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// LeadsForListing returns the leads submitted for a listing, oldest first.
func (s *SQLStore) LeadsForListing(ctx context.Context, publicID string) ([]domain.LeadRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, public_id, tenant_name, tenant_email, tenant_phone, move_in_date,
			monthly_budget, occupants, has_pets, message, status, status_code, submitted_at
		FROM lead WHERE public_id = ? ORDER BY submitted_at
	`), publicID)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var records []domain.LeadRecord
	for rows.Next() {
		var (
			rec       domain.LeadRecord
			submitted string
		)
		l := &rec.Lead
		if err := rows.Scan(&rec.ID, &l.PublicID, &l.TenantName, &l.TenantEmail, &l.TenantPhone,
			&l.MoveInDate, &l.MonthlyBudget, &l.Occupants, &l.HasPets, &l.Message,
			&rec.Status, &rec.StatusCode, &submitted); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if rec.SubmittedAt, err = time.Parse(time.RFC3339Nano, submitted); err != nil {
			return nil, fmt.Errorf("parse submitted_at: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
