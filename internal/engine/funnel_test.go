package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func baseChannel() ChannelConfig {
	return ChannelConfig{
		ID:           "ch-1",
		Name:         "outbound",
		Segment:      SegmentSMB,
		MonthlyLeads: decimal.NewFromInt(1000),
		CostMethod:   CostPerLead,
		CostAmount:   decimal.NewFromInt(25),
		ContactRate:  decimal.NewFromFloat(0.65),
		MeetingRate:  decimal.NewFromFloat(0.4),
		ShowUpRate:   decimal.NewFromFloat(0.7),
		CloseRate:    decimal.NewFromFloat(0.3),
	}
}

func TestRunFunnel_StageVolumes(t *testing.T) {
	f, err := RunFunnel(baseChannel(), decimal.NewFromInt(35000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"contacts", f.Contacts, "650"},
		{"meetings_scheduled", f.MeetingsScheduled, "260"},
		{"meetings_held", f.MeetingsHeld, "182"},
		{"sales", f.Sales, "54.6"},
		{"spend", f.Spend, "25000"},
		{"revenue", f.Revenue, "1911000"},
	}
	for _, c := range checks {
		if c.got.Cmp(decimal.RequireFromString(c.want)) != 0 {
			t.Fatalf("%s=%s want=%s", c.name, c.got.String(), c.want)
		}
	}

	// Monotone non-increase down the funnel.
	stages := []decimal.Decimal{f.Leads, f.Contacts, f.MeetingsScheduled, f.MeetingsHeld, f.Sales}
	for i := 1; i < len(stages); i++ {
		if stages[i].GreaterThan(stages[i-1]) {
			t.Fatalf("stage %d (%s) exceeds stage %d (%s)", i, stages[i], i-1, stages[i-1])
		}
	}
}

// Specifying the cost at any funnel stage must reconcile to the same spend
// model: a cost-per-sale input must reproduce exactly that cost per sale.
func TestCostReconciliation_RoundTrips(t *testing.T) {
	cases := []struct {
		name   string
		method CostMethod
		amount string
	}{
		{"per contact", CostPerContact, "40"},
		{"per meeting", CostPerMeeting, "150"},
		{"per sale", CostPerSale, "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := baseChannel()
			ch.CostMethod = tc.method
			ch.CostAmount = decimal.RequireFromString(tc.amount)
			f, err := RunFunnel(ch, decimal.NewFromInt(35000))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var perUnit decimal.Decimal
			switch tc.method {
			case CostPerContact:
				perUnit = f.Spend.Div(f.Contacts)
			case CostPerMeeting:
				perUnit = f.Spend.Div(f.MeetingsHeld)
			case CostPerSale:
				perUnit = f.CostPerSale
			}
			if perUnit.Cmp(decimal.RequireFromString(tc.amount)) != 0 {
				t.Fatalf("reconciled unit cost=%s want=%s", perUnit.String(), tc.amount)
			}
		})
	}
}

func TestCostReconciliation_TotalBudget(t *testing.T) {
	ch := baseChannel()
	ch.CostMethod = CostBudget
	ch.CostAmount = decimal.NewFromInt(30000)
	f, err := RunFunnel(ch, decimal.NewFromInt(35000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Spend.Cmp(decimal.NewFromInt(30000)) != 0 {
		t.Fatalf("spend=%s want=30000", f.Spend)
	}
	if f.EffectiveCostPerLead.Cmp(decimal.NewFromInt(30)) != 0 {
		t.Fatalf("cpl=%s want=30", f.EffectiveCostPerLead)
	}
}

func TestRunFunnel_ZeroCloseRate(t *testing.T) {
	ch := baseChannel()
	ch.CloseRate = decimal.Zero
	f, err := RunFunnel(ch, decimal.NewFromInt(35000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Sales.Sign() != 0 {
		t.Fatalf("sales=%s want=0", f.Sales)
	}
	// CPA and ROAS fall back to defined zeros, never NaN or a panic.
	if f.CostPerSale.Sign() != 0 {
		t.Fatalf("cost_per_sale=%s want=0", f.CostPerSale)
	}
	if f.Revenue.Sign() != 0 || f.ROAS.Sign() != 0 {
		t.Fatalf("revenue=%s roas=%s want zeros", f.Revenue, f.ROAS)
	}
}

func TestRunFunnel_ZeroCumulativeConversion(t *testing.T) {
	ch := baseChannel()
	ch.ContactRate = decimal.Zero
	ch.CostMethod = CostPerSale
	ch.CostAmount = decimal.NewFromInt(1000)
	f, err := RunFunnel(ch, decimal.NewFromInt(35000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.EffectiveCostPerLead.Sign() != 0 {
		t.Fatalf("cpl=%s want=0 for dead funnel", f.EffectiveCostPerLead)
	}
	if f.Spend.Sign() != 0 {
		t.Fatalf("spend=%s want=0", f.Spend)
	}
}

func TestRunFunnel_ZeroBudgetLeads(t *testing.T) {
	ch := baseChannel()
	ch.MonthlyLeads = decimal.Zero
	ch.CostMethod = CostBudget
	ch.CostAmount = decimal.NewFromInt(5000)
	f, err := RunFunnel(ch, decimal.NewFromInt(35000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.EffectiveCostPerLead.Sign() != 0 {
		t.Fatalf("cpl=%s want=0 when no leads", f.EffectiveCostPerLead)
	}
}

func TestRunFunnel_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ChannelConfig)
		field  string
	}{
		{"rate above one", func(c *ChannelConfig) { c.CloseRate = decimal.NewFromFloat(1.2) }, "close_rate"},
		{"negative leads", func(c *ChannelConfig) { c.MonthlyLeads = decimal.NewFromInt(-5) }, "monthly_leads"},
		{"negative cost", func(c *ChannelConfig) { c.CostAmount = decimal.NewFromInt(-1) }, "cost_amount"},
		{"bad cost method", func(c *ChannelConfig) { c.CostMethod = CostMethod("per_click") }, "cost_method"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := baseChannel()
			tc.mutate(&ch)
			_, err := RunFunnel(ch, decimal.NewFromInt(100))
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("err=%v want InvalidInputError", err)
			}
			if invalid.Field != tc.field {
				t.Fatalf("field=%s want=%s", invalid.Field, tc.field)
			}
		})
	}
}
