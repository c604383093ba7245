// Package cost simulates employer labor costs under a CCNL and compares two
// contracts line by line.
package cost

import (
	"errors"
	"fmt"
	"math"
)

// ContributionKind distinguishes rate-based from flat contributions.
type ContributionKind string

const (
	// Percentage contributions apply Rate (in percent) to the annual gross salary.
	Percentage ContributionKind = "percentage"

	// Fixed contributions charge Amount per Period.
	Fixed ContributionKind = "fixed"
)

// Period is the billing period of a fixed contribution.
type Period string

const (
	Monthly Period = "monthly"
	Annual  Period = "annual"
)

// TFRDivisor is the statutory divisor for severance accrual (trattamento di
// fine rapporto): annual gross / 13.5.
const TFRDivisor = 13.5

// Contribution is one employer-side cost line.
type Contribution struct {
	Name   string           `yaml:"name" json:"name"`
	Kind   ContributionKind `yaml:"kind" json:"kind"`
	Rate   float64          `yaml:"rate,omitempty" json:"rate,omitempty"`
	Amount float64          `yaml:"amount,omitempty" json:"amount,omitempty"`
	Period Period           `yaml:"period,omitempty" json:"period,omitempty"`
}

// Profile describes the employer cost structure of a contract level.
type Profile struct {
	Code          string         `yaml:"code" json:"code"`
	Name          string         `yaml:"name" json:"name"`
	Sector        string         `yaml:"sector,omitempty" json:"sector,omitempty"`
	MonthlySalary float64        `yaml:"monthly_salary" json:"monthly_salary"`
	Mensilita     int            `yaml:"mensilita" json:"mensilita"`
	ExcludeTFR    bool           `yaml:"exclude_tfr,omitempty" json:"exclude_tfr,omitempty"`
	Contributions []Contribution `yaml:"contributions" json:"contributions"`
	Notes         string         `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Line is a computed cost line.
type Line struct {
	Name    string  `json:"name"`
	Annual  float64 `json:"annual"`
	Monthly float64 `json:"monthly"`
}

// Breakdown is the simulated cost of one profile.
type Breakdown struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	GrossAnnual  float64 `json:"gross_annual"`
	GrossMonthly float64 `json:"gross_monthly"`
	Lines        []Line  `json:"lines"`
	TotalAnnual  float64 `json:"total_annual"`
	TotalMonthly float64 `json:"total_monthly"`
}

// Sentinel errors for cost simulation.
var (
	// ErrInvalidProfile indicates a profile failed validation.
	ErrInvalidProfile = errors.New("invalid cost profile")

	// ErrInvalidContribution indicates a contribution failed validation.
	ErrInvalidContribution = errors.New("invalid contribution")
)

// ValidationError identifies the offending field of a profile.
type ValidationError struct {
	Code    string
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Err, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Message)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the profile for values the simulation cannot use.
func (p Profile) Validate() error {
	invalid := func(field, msg string) error {
		return &ValidationError{Code: p.Code, Field: field, Message: msg, Err: ErrInvalidProfile}
	}
	if p.MonthlySalary < 0 || math.IsNaN(p.MonthlySalary) || math.IsInf(p.MonthlySalary, 0) {
		return invalid("monthly_salary", "must be a non-negative amount")
	}
	if p.Mensilita < 12 || p.Mensilita > 14 {
		return invalid("mensilita", fmt.Sprintf("must be between 12 and 14, got %d", p.Mensilita))
	}
	for i, c := range p.Contributions {
		if err := c.validate(); err != nil {
			return &ValidationError{
				Code:    p.Code,
				Field:   fmt.Sprintf("contributions[%d]", i),
				Message: err.Error(),
				Err:     ErrInvalidContribution,
			}
		}
	}
	return nil
}

func (c Contribution) validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	switch c.Kind {
	case Percentage:
		if c.Rate < 0 || c.Rate > 100 {
			return fmt.Errorf("rate must be between 0 and 100, got %v", c.Rate)
		}
	case Fixed:
		if c.Amount < 0 {
			return fmt.Errorf("amount must be non-negative, got %v", c.Amount)
		}
		if c.Period != "" && c.Period != Monthly && c.Period != Annual {
			return fmt.Errorf("unknown period %q", c.Period)
		}
	default:
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	return nil
}

// annual returns the yearly amount of c for the given gross salary.
func (c Contribution) annual(grossAnnual float64) float64 {
	if c.Kind == Percentage {
		return grossAnnual * c.Rate / 100
	}
	if c.Period == Annual {
		return c.Amount
	}
	// Fixed contributions default to monthly.
	return c.Amount * 12
}

// Simulate computes the employer cost of p.
//
// The gross annual salary is MonthlySalary × Mensilita. Percentage lines apply
// to the gross annual salary, fixed lines are annualized, and TFR accrues at
// gross annual / 13.5 unless ExcludeTFR is set. Monthly figures are the annual
// ones spread over 12 months. Amounts are rounded to cents.
func Simulate(p Profile) (Breakdown, error) {
	if err := p.Validate(); err != nil {
		return Breakdown{}, err
	}

	gross := p.MonthlySalary * float64(p.Mensilita)
	b := Breakdown{
		Code:         p.Code,
		Name:         p.Name,
		GrossAnnual:  round(gross),
		GrossMonthly: round(gross / 12),
		Lines:        make([]Line, 0, len(p.Contributions)+1),
	}

	total := gross
	for _, c := range p.Contributions {
		amount := c.annual(gross)
		total += amount
		b.Lines = append(b.Lines, Line{Name: c.Name, Annual: round(amount), Monthly: round(amount / 12)})
	}
	if !p.ExcludeTFR {
		tfr := gross / TFRDivisor
		total += tfr
		b.Lines = append(b.Lines, Line{Name: "TFR", Annual: round(tfr), Monthly: round(tfr / 12)})
	}

	b.TotalAnnual = round(total)
	b.TotalMonthly = round(total / 12)
	return b, nil
}

// round rounds to the nearest cent.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
