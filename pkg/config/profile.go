package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/obralink/avance/pkg/schedule"
)

// ReportProfile captures the per-deployment reporting choices that must
// not be hard-coded: which end of a valuation's billing period counts
// as its effective date (pending product confirmation, see
// schedule.DatePolicy) and how planned cost spreads over a task.
type ReportProfile struct {
	Name                string `yaml:"name"`
	ValuationDatePolicy string `yaml:"valuation_date_policy"` // "period_end" | "period_start"
	Distribution        string `yaml:"distribution"`          // "linear"
}

// DefaultProfile returns the conservative defaults used when no
// profile file is configured.
func DefaultProfile() *ReportProfile {
	return &ReportProfile{
		Name:                "default",
		ValuationDatePolicy: string(schedule.DatePeriodEnd),
		Distribution:        "linear",
	}
}

// LoadProfile reads and validates a report profile YAML.
func LoadProfile(path string) (*ReportProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", path, err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", path, err)
	}

	switch schedule.DatePolicy(profile.ValuationDatePolicy) {
	case schedule.DatePeriodEnd, schedule.DatePeriodStart:
	default:
		return nil, fmt.Errorf("profile %q: unknown valuation_date_policy %q", path, profile.ValuationDatePolicy)
	}
	return profile, nil
}

// DatePolicy returns the profile's valuation date policy.
func (p *ReportProfile) DatePolicy() schedule.DatePolicy {
	return schedule.DatePolicy(p.ValuationDatePolicy)
}
