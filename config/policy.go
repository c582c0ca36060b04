package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"mortgage-engine/domain"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// DefaultPolicy returns the embedded program policy table.
func DefaultPolicy() (domain.PolicyTable, error) {
	return ParsePolicy(defaultPolicyYAML)
}

// LoadPolicy reads a policy table from a YAML file. An empty path returns the
// embedded default.
func LoadPolicy(path string) (domain.PolicyTable, error) {
	if path == "" {
		return DefaultPolicy()
	}

	data, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return domain.PolicyTable{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML policy table.
func ParsePolicy(data []byte) (domain.PolicyTable, error) {
	var table domain.PolicyTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return domain.PolicyTable{}, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := ValidatePolicy(table); err != nil {
		return domain.PolicyTable{}, err
	}
	return table, nil
}

// ValidatePolicy checks that every known program is present, that DTI limits
// are usable and that each MI band covers the full credit score range.
func ValidatePolicy(table domain.PolicyTable) error {
	var errs []error

	for _, program := range domain.Programs {
		p, ok := table.Programs[program]
		if !ok {
			errs = append(errs, fmt.Errorf("program %s: missing", program))
			continue
		}
		if p.DTI.BackPercent <= 0 {
			errs = append(errs, fmt.Errorf("program %s: back_percent must be > 0", program))
		}
		if p.DTI.FrontPercent < 0 {
			errs = append(errs, fmt.Errorf("program %s: front_percent must be >= 0", program))
		}
		if p.MI.UpfrontPercent < 0 || p.MI.ExemptAtOrBelowLTV < 0 {
			errs = append(errs, fmt.Errorf("program %s: mi percentages must be >= 0", program))
		}
		if err := validateRates(p.MI.Rates); err != nil {
			errs = append(errs, fmt.Errorf("program %s: %w", program, err))
		}
	}

	return errors.Join(errs...)
}

type bandKey struct {
	minLTV, maxLTV float64
	maxTerm        int
}

func validateRates(rates []domain.MIRate) error {
	bands := make(map[bandKey][]domain.MIRate)
	for i, r := range rates {
		if r.MaxLTV <= r.MinLTV {
			return fmt.Errorf("rate %d: max_ltv must exceed min_ltv", i)
		}
		if r.MaxCredit < r.MinCredit {
			return fmt.Errorf("rate %d: max_credit below min_credit", i)
		}
		if r.AnnualPercent < 0 {
			return fmt.Errorf("rate %d: negative annual_percent", i)
		}
		k := bandKey{r.MinLTV, r.MaxLTV, r.MaxTermYears}
		bands[k] = append(bands[k], r)
	}

	for k, rows := range bands {
		sort.Slice(rows, func(i, j int) bool { return rows[i].MinCredit < rows[j].MinCredit })
		if rows[0].MinCredit > MinCreditScore {
			return fmt.Errorf("ltv band (%g, %g]: credit starts at %d", k.minLTV, k.maxLTV, rows[0].MinCredit)
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].MinCredit != rows[i-1].MaxCredit+1 {
				return fmt.Errorf("ltv band (%g, %g]: credit gap or overlap at %d", k.minLTV, k.maxLTV, rows[i].MinCredit)
			}
		}
		if last := rows[len(rows)-1]; last.MaxCredit < MaxCreditScore {
			return fmt.Errorf("ltv band (%g, %g]: credit ends at %d", k.minLTV, k.maxLTV, last.MaxCredit)
		}
	}
	return nil
}
