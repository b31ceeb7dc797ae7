package pricing

import "errors"

// Plan is a priced package offering administered on the pricing page and
// offered as dropdown options on booking/subscription forms.
type Plan struct {
	ID           string
	Name         string
	PackageType  string
	Price        float64
	DefaultPrice float64
	SessionCount int
	Active       bool
}

// Validate checks required fields for a Plan form.
// PRE: Plan struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Plan) Validate() error {
	if p.Name == "" {
		return errors.New("plan name is required")
	}
	if p.PackageType == "" {
		return errors.New("package type is required")
	}
	if p.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}
