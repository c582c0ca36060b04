package domain

import "time"

// Lead is the rental inquiry body posted to the leads endpoint.
type Lead struct {
	PublicID      string  `json:"publicId"`
	TenantName    string  `json:"tenantName"`
	TenantEmail   string  `json:"tenantEmail"`
	TenantPhone   string  `json:"tenantPhone"`
	MoveInDate    string  `json:"moveInDate"`
	MonthlyBudget float64 `json:"monthlyBudget"`
	Occupants     int     `json:"occupants"`
	HasPets       bool    `json:"hasPets"`
	Message       string  `json:"message"`
}

// LeadRecord is a submitted lead with its delivery outcome.
type LeadRecord struct {
	ID          string
	Lead        Lead
	Status      string // "delivered" or "failed"
	StatusCode  int
	SubmittedAt time.Time
}

type LeadResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
