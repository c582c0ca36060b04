package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
)

const (
	LeadDelivered = "delivered"
	LeadFailed    = "failed"
)

// LeadService forwards rental inquiries to the external leads endpoint. Each
// submission is a single POST: no retries, no idempotency key.
type LeadService struct {
	endpoint   string
	httpClient *http.Client
	repo       repository.LeadRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewLeadService(
	endpoint string,
	timeout time.Duration,
	repo repository.LeadRepository,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates and posts a lead. Any non-2xx answer or transport failure
// returns ErrLeadRejected.
func (s *LeadService) Submit(ctx context.Context, lead domain.Lead) (domain.LeadResult, error) {
	if err := ValidateLead(lead); err != nil {
		return domain.LeadResult{}, err
	}
	if s.endpoint == "" {
		return domain.LeadResult{}, ErrLeadEndpointMissing
	}

	record := domain.LeadRecord{
		ID:          uuid.NewString(),
		Lead:        lead,
		Status:      LeadDelivered,
		SubmittedAt: s.now(),
	}

	status, postErr := s.post(ctx, lead)
	record.StatusCode = status
	if postErr != nil {
		record.Status = LeadFailed
		s.logger.Warn("lead submission failed",
			zap.String("lead_id", record.ID),
			zap.String("public_id", lead.PublicID),
			zap.Int("status", status),
			zap.Error(postErr),
		)
	}

	// Guardar el intento (no crítico si falla)
	if err := s.repo.SaveLead(ctx, record); err != nil {
		s.logger.Warn("failed to save lead", zap.String("lead_id", record.ID), zap.Error(err))
	}

	if postErr != nil {
		return domain.LeadResult{ID: record.ID, Status: record.Status}, ErrLeadRejected
	}

	s.logger.Info("lead delivered",
		zap.String("lead_id", record.ID),
		zap.String("public_id", lead.PublicID),
	)
	return domain.LeadResult{ID: record.ID, Status: record.Status}, nil
}

func (s *LeadService) post(ctx context.Context, lead domain.Lead) (int, error) {
	jsonData, err := json.Marshal(lead)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, fmt.Errorf("lead endpoint error (status %d): %s", resp.StatusCode, string(body))
	}
	return resp.StatusCode, nil
}

// ValidateLead checks the fields the leads endpoint requires.
func ValidateLead(lead domain.Lead) error {
	if strings.TrimSpace(lead.PublicID) == "" {
		return fmt.Errorf("%w: publicId is required", ErrInvalidLead)
	}
	if strings.TrimSpace(lead.TenantName) == "" {
		return fmt.Errorf("%w: tenantName is required", ErrInvalidLead)
	}
	if !isValidEmail(lead.TenantEmail) {
		return fmt.Errorf("%w: tenantEmail is invalid", ErrInvalidLead)
	}
	if lead.MonthlyBudget < 0 || !finite(lead.MonthlyBudget) {
		return fmt.Errorf("%w: monthlyBudget cannot be negative", ErrInvalidLead)
	}
	if lead.Occupants < 0 {
		return fmt.Errorf("%w: occupants cannot be negative", ErrInvalidLead)
	}
	if lead.MoveInDate != "" {
		if _, err := time.Parse(time.DateOnly, lead.MoveInDate); err != nil {
			return fmt.Errorf("%w: moveInDate must be YYYY-MM-DD", ErrInvalidLead)
		}
	}
	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	dot := strings.LastIndex(email, ".")
	return dot > at+1 && dot < len(email)-1
}
