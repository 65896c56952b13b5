package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Role names match the sales-org archetypes the dashboard models. Custom
// role names are allowed; these are the seeded defaults.
const (
	RoleCloser  = "closer"
	RoleSetter  = "setter"
	RoleManager = "manager"
	RoleBench   = "bench"
)

// RoleCompensation is one role's staffing and pay plan. BaseSalary and
// VariableTarget are monthly figures; CommissionPct is a fraction of the
// commission base in [0,1].
type RoleCompensation struct {
	Count          int             `json:"count"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	VariableTarget decimal.Decimal `json:"variable_target"`
	CommissionPct  decimal.Decimal `json:"commission_pct"`
}

// OTE is on-target earnings at 100% attainment.
func (r RoleCompensation) OTE() decimal.Decimal {
	return r.BaseSalary.Add(r.VariableTarget)
}

func (r RoleCompensation) validate(role string) error {
	if r.Count < 0 {
		return invalidInput("compensation."+role+".count", "must not be negative")
	}
	if err := checkNonNegative("compensation."+role+".base_salary", r.BaseSalary); err != nil {
		return err
	}
	if err := checkNonNegative("compensation."+role+".variable_target", r.VariableTarget); err != nil {
		return err
	}
	return checkRate("compensation."+role+".commission_pct", r.CommissionPct)
}

// CommissionMode selects how a role pool maps to per-person earnings.
type CommissionMode string

const (
	// ModeMonthly divides each role pool across the role headcount,
	// estimating per-person earnings for the period.
	ModeMonthly CommissionMode = "monthly"
	// ModePerDeal previews one deal's payout: the whole role pool goes,
	// undivided, to the individual who closed the deal.
	ModePerDeal CommissionMode = "per_deal"
)

func (m CommissionMode) Valid() bool {
	return m == ModeMonthly || m == ModePerDeal
}

// RolePayout is one role's share of the commission pool.
type RolePayout struct {
	Role      string          `json:"role"`
	Count     int             `json:"count"`
	Pool      decimal.Decimal `json:"pool"`
	PerPerson decimal.Decimal `json:"per_person"`
	// Unstaffed flags a role with commission but zero headcount: the pool
	// is computed (count treated as 1 for the division) but has no actual
	// recipient. Surfaced rather than silently hidden.
	Unstaffed bool `json:"unstaffed,omitempty"`
}

// CommissionResult is the full commission breakdown for one evaluation.
type CommissionResult struct {
	Mode        CommissionMode  `json:"mode"`
	RevenueBase decimal.Decimal `json:"revenue_base"`
	Payouts     []RolePayout    `json:"payouts"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeCommissions derives per-role pools from the sales volume and the
// deal's commission base. In ModePerDeal the sales argument is ignored and
// exactly one deal is priced.
func ComputeCommissions(mode CommissionMode, sales decimal.Decimal, comp map[string]RoleCompensation, deal DealEconomics) (CommissionResult, error) {
	if !mode.Valid() {
		return CommissionResult{}, invalidInputf("commission_mode", "unknown mode %q", string(mode))
	}
	if err := checkNonNegative("monthly_sales", sales); err != nil {
		return CommissionResult{}, err
	}
	if mode == ModePerDeal {
		sales = decimal.NewFromInt(1)
	}
	base := sales.Mul(deal.CommissionBase())

	roles := make([]string, 0, len(comp))
	for role := range comp {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	result := CommissionResult{Mode: mode, RevenueBase: base}
	for _, role := range roles {
		rc := comp[role]
		if err := rc.validate(role); err != nil {
			return CommissionResult{}, err
		}
		pool := base.Mul(rc.CommissionPct)
		payout := RolePayout{
			Role:      role,
			Count:     rc.Count,
			Pool:      pool,
			Unstaffed: rc.Count == 0 && pool.Sign() > 0,
		}
		if mode == ModePerDeal {
			payout.PerPerson = pool
		} else {
			divisor := rc.Count
			if divisor < 1 {
				divisor = 1
			}
			payout.PerPerson = pool.Div(decimal.NewFromInt(int64(divisor)))
		}
		result.Payouts = append(result.Payouts, payout)
		result.Total = result.Total.Add(pool)
	}
	return result, nil
}

// TeamBaseCost is the summed monthly base salary across all roles.
func TeamBaseCost(comp map[string]RoleCompensation) decimal.Decimal {
	total := decimal.Zero
	for _, rc := range comp {
		if rc.Count <= 0 {
			continue
		}
		total = total.Add(rc.BaseSalary.Mul(decimal.NewFromInt(int64(rc.Count))))
	}
	return total
}
