package employee

import (
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
	"github.com/shopspring/decimal"
)

// Employee carries the reference data the engine needs: identity, the
// fallback shift for dates before the first recorded assignment, the Saturday
// alternation group, and the gross salary the payroll pass divides.
type Employee struct {
	Code             string
	FullName         string
	Department       string
	CurrentShiftCode string
	SaturdayGroup    weekend.AlternationGroup
	GrossSalary      decimal.Decimal
	Active           bool
}
