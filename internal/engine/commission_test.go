package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dealFixture(t *testing.T) DealEconomics {
	t.Helper()
	deal, err := ResolveDealEconomics(DealInput{
		Method:               CalcDirect,
		DealValue:            decimal.NewFromInt(50000),
		ContractLengthMonths: 12,
		UpfrontPct:           decimal.NewFromInt(70),
		Policy:               PolicyUpfront,
	})
	if err != nil {
		t.Fatalf("deal fixture: %v", err)
	}
	return deal
}

// One closer earns the full commission on their own deal; monthly
// aggregate estimates divide the pool evenly across the headcount.
func TestComputeCommissions_ModeDistinction(t *testing.T) {
	deal := dealFixture(t)
	comp := map[string]RoleCompensation{
		RoleCloser: {Count: 4, CommissionPct: decimal.NewFromFloat(0.2)},
	}

	perDeal, err := ComputeCommissions(ModePerDeal, decimal.Zero, comp, deal)
	if err != nil {
		t.Fatalf("per-deal: %v", err)
	}
	pool := decimal.NewFromInt(7000) // 35000 × 0.2
	if perDeal.Payouts[0].Pool.Cmp(pool) != 0 {
		t.Fatalf("per-deal pool=%s want=%s", perDeal.Payouts[0].Pool, pool)
	}
	if perDeal.Payouts[0].PerPerson.Cmp(pool) != 0 {
		t.Fatalf("per-deal per-person=%s want undivided pool %s", perDeal.Payouts[0].PerPerson, pool)
	}

	monthly, err := ComputeCommissions(ModeMonthly, decimal.NewFromInt(1), comp, deal)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly.Payouts[0].Pool.Cmp(pool) != 0 {
		t.Fatalf("monthly pool=%s want=%s", monthly.Payouts[0].Pool, pool)
	}
	wantPerPerson := decimal.NewFromInt(1750) // 7000 / 4
	if monthly.Payouts[0].PerPerson.Cmp(wantPerPerson) != 0 {
		t.Fatalf("monthly per-person=%s want=%s", monthly.Payouts[0].PerPerson, wantPerPerson)
	}
}

func TestComputeCommissions_MonthlyAggregate(t *testing.T) {
	deal := dealFixture(t)
	comp := map[string]RoleCompensation{
		RoleCloser: {Count: 4, CommissionPct: decimal.NewFromFloat(0.2)},
		RoleSetter: {Count: 2, CommissionPct: decimal.NewFromFloat(0.05)},
	}
	sales := decimal.RequireFromString("54.6")
	result, err := ComputeCommissions(ModeMonthly, sales, comp, deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RevenueBase.Cmp(decimal.NewFromInt(1911000)) != 0 {
		t.Fatalf("revenue base=%s want=1911000", result.RevenueBase)
	}
	// Payouts are sorted by role name: closer before setter.
	if result.Payouts[0].Role != RoleCloser || result.Payouts[1].Role != RoleSetter {
		t.Fatalf("payout order=%v want closer,setter", []string{result.Payouts[0].Role, result.Payouts[1].Role})
	}
	closerPool := decimal.NewFromInt(382200)
	if result.Payouts[0].Pool.Cmp(closerPool) != 0 {
		t.Fatalf("closer pool=%s want=%s", result.Payouts[0].Pool, closerPool)
	}
	wantTotal := decimal.NewFromInt(477750) // 382200 + 95550
	if result.Total.Cmp(wantTotal) != 0 {
		t.Fatalf("total=%s want=%s", result.Total, wantTotal)
	}
}

func TestComputeCommissions_FullValuePolicy(t *testing.T) {
	deal := dealFixture(t)
	deal.Policy = PolicyFull
	comp := map[string]RoleCompensation{
		RoleCloser: {Count: 1, CommissionPct: decimal.NewFromFloat(0.1)},
	}
	result, err := ComputeCommissions(ModePerDeal, decimal.Zero, comp, deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payouts[0].Pool.Cmp(decimal.NewFromInt(5000)) != 0 {
		t.Fatalf("pool=%s want=5000 on full-value policy", result.Payouts[0].Pool)
	}
}

// A role with commission but no headcount must not divide by zero; the
// pool is reported with an explicit unstaffed flag instead.
func TestComputeCommissions_ZeroHeadcount(t *testing.T) {
	deal := dealFixture(t)
	comp := map[string]RoleCompensation{
		RoleManager: {Count: 0, CommissionPct: decimal.NewFromFloat(0.02)},
	}
	result, err := ComputeCommissions(ModeMonthly, decimal.NewFromInt(10), comp, deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := result.Payouts[0]
	if !p.Unstaffed {
		t.Fatalf("expected unstaffed flag for zero headcount with positive pool")
	}
	if p.PerPerson.Cmp(p.Pool) != 0 {
		t.Fatalf("per-person=%s want=%s (count treated as 1)", p.PerPerson, p.Pool)
	}
}

func TestComputeCommissions_RejectsInvalid(t *testing.T) {
	deal := dealFixture(t)
	cases := []struct {
		name string
		comp map[string]RoleCompensation
	}{
		{"negative count", map[string]RoleCompensation{RoleCloser: {Count: -1}}},
		{"pct above one", map[string]RoleCompensation{RoleCloser: {Count: 1, CommissionPct: decimal.NewFromFloat(1.5)}}},
		{"negative base", map[string]RoleCompensation{RoleCloser: {Count: 1, BaseSalary: decimal.NewFromInt(-1)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeCommissions(ModeMonthly, decimal.NewFromInt(1), tc.comp, deal)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("err=%v want InvalidInputError", err)
			}
		})
	}
}

func TestRoleCompensation_OTE(t *testing.T) {
	rc := RoleCompensation{
		BaseSalary:     decimal.NewFromInt(6000),
		VariableTarget: decimal.NewFromInt(4000),
	}
	if rc.OTE().Cmp(decimal.NewFromInt(10000)) != 0 {
		t.Fatalf("ote=%s want=10000", rc.OTE())
	}
}

func TestTeamBaseCost(t *testing.T) {
	comp := map[string]RoleCompensation{
		RoleCloser:  {Count: 4, BaseSalary: decimal.NewFromInt(6000)},
		RoleSetter:  {Count: 2, BaseSalary: decimal.NewFromInt(4000)},
		RoleManager: {Count: 0, BaseSalary: decimal.NewFromInt(10000)},
	}
	want := decimal.NewFromInt(32000)
	if got := TeamBaseCost(comp); got.Cmp(want) != 0 {
		t.Fatalf("team base=%s want=%s", got, want)
	}
}
