package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func funnelFixture(id string, held, sales, spend, revenue int64) ChannelFunnel {
	return ChannelFunnel{
		ChannelID:    id,
		MeetingsHeld: decimal.NewFromInt(held),
		Sales:        decimal.NewFromInt(sales),
		Spend:        decimal.NewFromInt(spend),
		Revenue:      decimal.NewFromInt(revenue),
	}
}

func TestAggregate_OrderIndependence(t *testing.T) {
	a := funnelFixture("a", 100, 60, 1000, 90000)
	b := funnelFixture("b", 300, 90, 2000, 135000)
	c := funnelFixture("c", 50, 5, 4000, 7500)

	orders := [][]ChannelFunnel{
		{a, b, c},
		{c, a, b},
		{b, c, a},
		{c, b, a},
	}
	first := Aggregate(orders[0])
	for i, order := range orders[1:] {
		got := Aggregate(order)
		if got.TotalSales.Cmp(first.TotalSales) != 0 ||
			got.TotalSpend.Cmp(first.TotalSpend) != 0 ||
			got.TotalRevenue.Cmp(first.TotalRevenue) != 0 ||
			got.BlendedCloseRate.Cmp(first.BlendedCloseRate) != 0 ||
			got.BlendedCAC.Cmp(first.BlendedCAC) != 0 {
			t.Fatalf("permutation %d differs from baseline: %+v vs %+v", i+1, got, first)
		}
	}
}

// Regression guard against the "average of rates" bug: the blended close
// rate must be the ratio of summed volumes, which differs from the mean of
// per-channel rates whenever volumes differ.
func TestAggregate_BlendedCloseRateIsVolumeWeighted(t *testing.T) {
	// a closes 60/100 (0.6), b closes 90/300 (0.3).
	a := funnelFixture("a", 100, 60, 1000, 0)
	b := funnelFixture("b", 300, 90, 2000, 0)
	m := Aggregate([]ChannelFunnel{a, b})

	want := decimal.RequireFromString("0.375") // 150 / 400
	if m.BlendedCloseRate.Cmp(want) != 0 {
		t.Fatalf("blended close rate=%s want=%s", m.BlendedCloseRate, want)
	}
	mean := decimal.RequireFromString("0.45") // (0.6 + 0.3) / 2
	if m.BlendedCloseRate.Cmp(mean) == 0 {
		t.Fatalf("blended close rate equals arithmetic mean %s; aggregation is averaging rates", mean)
	}
	if m.BlendedCAC.Cmp(decimal.NewFromInt(20)) != 0 {
		t.Fatalf("blended cac=%s want=20", m.BlendedCAC)
	}
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)
	zeros := []decimal.Decimal{
		m.TotalLeads, m.TotalSales, m.TotalRevenue, m.TotalSpend,
		m.BlendedContactRate, m.BlendedMeetingRate, m.BlendedShowUpRate,
		m.BlendedCloseRate, m.BlendedCAC, m.BlendedROAS,
	}
	for i, v := range zeros {
		if v.Sign() != 0 {
			t.Fatalf("field %d = %s want 0 on empty aggregation", i, v)
		}
	}
}
