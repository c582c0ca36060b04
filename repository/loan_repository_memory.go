package repository

import (
	"context"
	"sort"
	"sync"

	"mortgage-engine/domain"
)

// LoanRepositoryMemory is the in-memory Store behind storage driver
// "memory". Nothing survives a restart.
type LoanRepositoryMemory struct {
	mu    sync.Mutex
	data  []domain.LoanResult
	leads []domain.LeadRecord
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{
		data: []domain.LoanResult{},
	}
}

// Save stores the loan result in memory.
func (r *LoanRepositoryMemory) Save(
	_ context.Context,
	input domain.LoanInput,
	result domain.LoanResult,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, result)
	return nil
}

// SaveLead stores the lead record in memory.
func (r *LoanRepositoryMemory) SaveLead(_ context.Context, record domain.LeadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, record)
	return nil
}

// LeadsForListing returns the leads submitted for a listing, oldest first.
func (r *LoanRepositoryMemory) LeadsForListing(_ context.Context, publicID string) ([]domain.LeadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []domain.LeadRecord
	for _, rec := range r.leads {
		if rec.Lead.PublicID == publicID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SubmittedAt.Before(records[j].SubmittedAt)
	})
	return records, nil
}

func (r *LoanRepositoryMemory) Close() error {
	return nil
}

// Quotes returns a copy of the stored quotes.
func (r *LoanRepositoryMemory) Quotes() []domain.LoanResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LoanResult(nil), r.data...)
}

// Leads returns a copy of the stored lead records.
func (r *LoanRepositoryMemory) Leads() []domain.LeadRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LeadRecord(nil), r.leads...)
}
