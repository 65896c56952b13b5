package engine

import (
	"github.com/shopspring/decimal"
)

// CalcMethod selects how the canonical deal value is derived from the
// business-model-specific inputs.
type CalcMethod string

const (
	CalcDirect             CalcMethod = "direct"
	CalcInsurance          CalcMethod = "insurance"
	CalcSubscription       CalcMethod = "subscription"
	CalcContractCommission CalcMethod = "contract_commission"
)

func (m CalcMethod) Valid() bool {
	switch m {
	case CalcDirect, CalcInsurance, CalcSubscription, CalcContractCommission:
		return true
	}
	return false
}

// CommissionPolicy selects the per-deal cash figure commissions and
// channel revenue are computed from.
type CommissionPolicy string

const (
	// PolicyUpfront bases commissions on the upfront cash collected at close.
	PolicyUpfront CommissionPolicy = "upfront"
	// PolicyFull bases commissions on the full contract value.
	PolicyFull CommissionPolicy = "full"
)

func (p CommissionPolicy) Valid() bool {
	return p == PolicyUpfront || p == PolicyFull
}

// DealInput carries the deal-economics section of a scenario. Only the
// fields of the selected calc method are read; the others are ignored, so
// switching methods never leaves stale derived values behind.
type DealInput struct {
	Method CalcMethod `json:"calc_method"`

	// direct
	DealValue            decimal.Decimal `json:"deal_value"`
	ContractLengthMonths int             `json:"contract_length_months"`

	// insurance (premium-based)
	MonthlyPremium    decimal.Decimal `json:"monthly_premium"`
	CommissionRatePct decimal.Decimal `json:"commission_rate_pct"`
	ContractYears     int             `json:"contract_years"`

	// subscription (MRR-based)
	MRR        decimal.Decimal `json:"mrr"`
	TermMonths int             `json:"term_months"`

	// commission-of-contract
	TotalContractValue decimal.Decimal `json:"total_contract_value"`
	CommissionPct      decimal.Decimal `json:"commission_pct"`

	UpfrontPct decimal.Decimal  `json:"upfront_pct"`
	Policy     CommissionPolicy `json:"commission_policy"`
}

// DealEconomics is the canonical per-deal cash model every downstream
// component reads. It is a pure function of DealInput, recomputed on every
// evaluation, never cached across method switches.
type DealEconomics struct {
	TotalDealValue       decimal.Decimal  `json:"total_deal_value"`
	ContractLengthMonths int              `json:"contract_length_months"`
	UpfrontPct           decimal.Decimal  `json:"upfront_pct"`
	DeferredPct          decimal.Decimal  `json:"deferred_pct"`
	UpfrontCash          decimal.Decimal  `json:"upfront_cash"`
	DeferredCash         decimal.Decimal  `json:"deferred_cash"`
	Policy               CommissionPolicy `json:"commission_policy"`
}

// CommissionBase returns the per-deal figure selected by the policy.
func (d DealEconomics) CommissionBase() decimal.Decimal {
	if d.Policy == PolicyFull {
		return d.TotalDealValue
	}
	return d.UpfrontCash
}

// ResolveDealValue converts the selected input method into the canonical
// (total deal value, contract length in months) pair.
func ResolveDealValue(in DealInput) (decimal.Decimal, int, error) {
	switch in.Method {
	case CalcDirect:
		if err := checkNonNegative("deal_value", in.DealValue); err != nil {
			return decimal.Zero, 0, err
		}
		if in.ContractLengthMonths < 1 {
			return decimal.Zero, 0, invalidInput("contract_length_months", "must be at least 1")
		}
		return in.DealValue, in.ContractLengthMonths, nil

	case CalcInsurance:
		if err := checkNonNegative("monthly_premium", in.MonthlyPremium); err != nil {
			return decimal.Zero, 0, err
		}
		if err := checkPct("commission_rate_pct", in.CommissionRatePct); err != nil {
			return decimal.Zero, 0, err
		}
		if in.ContractYears < 1 {
			return decimal.Zero, 0, invalidInput("contract_years", "must be at least 1")
		}
		years := decimal.NewFromInt(int64(in.ContractYears))
		total := in.MonthlyPremium.Mul(twelve).Mul(years).Mul(in.CommissionRatePct.Div(hundred))
		return total, in.ContractYears * 12, nil

	case CalcSubscription:
		if err := checkNonNegative("mrr", in.MRR); err != nil {
			return decimal.Zero, 0, err
		}
		if in.TermMonths < 1 {
			return decimal.Zero, 0, invalidInput("term_months", "must be at least 1")
		}
		total := in.MRR.Mul(decimal.NewFromInt(int64(in.TermMonths)))
		return total, in.TermMonths, nil

	case CalcContractCommission:
		if err := checkNonNegative("total_contract_value", in.TotalContractValue); err != nil {
			return decimal.Zero, 0, err
		}
		if err := checkPct("commission_pct", in.CommissionPct); err != nil {
			return decimal.Zero, 0, err
		}
		if in.ContractLengthMonths < 1 {
			return decimal.Zero, 0, invalidInput("contract_length_months", "must be at least 1")
		}
		total := in.TotalContractValue.Mul(in.CommissionPct.Div(hundred))
		return total, in.ContractLengthMonths, nil

	default:
		return decimal.Zero, 0, invalidInputf("calc_method", "unknown method %q", string(in.Method))
	}
}

// SplitCash divides a total deal value into upfront and deferred cash.
// Conservation holds exactly: deferred is computed as total minus upfront,
// not from its own percentage multiplication.
func SplitCash(total, upfrontPct decimal.Decimal) (upfront, deferred, deferredPct decimal.Decimal, err error) {
	if err = checkNonNegative("total_deal_value", total); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	if err = checkPct("upfront_pct", upfrontPct); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	upfront = total.Mul(upfrontPct.Div(hundred))
	deferred = total.Sub(upfront)
	deferredPct = hundred.Sub(upfrontPct)
	return upfront, deferred, deferredPct, nil
}

// ResolveDealEconomics runs the resolver and the cash split in one step.
func ResolveDealEconomics(in DealInput) (DealEconomics, error) {
	policy := in.Policy
	if policy == "" {
		policy = PolicyUpfront
	}
	if !policy.Valid() {
		return DealEconomics{}, invalidInputf("commission_policy", "unknown policy %q", string(in.Policy))
	}
	total, months, err := ResolveDealValue(in)
	if err != nil {
		return DealEconomics{}, err
	}
	upfront, deferred, deferredPct, err := SplitCash(total, in.UpfrontPct)
	if err != nil {
		return DealEconomics{}, err
	}
	return DealEconomics{
		TotalDealValue:       total,
		ContractLengthMonths: months,
		UpfrontPct:           in.UpfrontPct,
		DeferredPct:          deferredPct,
		UpfrontCash:          upfront,
		DeferredCash:         deferred,
		Policy:               policy,
	}, nil
}
