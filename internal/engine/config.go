package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ScenarioConfig is the complete input to one evaluation. It is passed by
// value through the whole dependency chain; nothing downstream mutates it.
// The JSON shape doubles as the export/import format, so partial documents
// from older exports must decode cleanly and fall back to defaults via
// Normalize rather than erroring.
type ScenarioConfig struct {
	Deal           DealInput                   `json:"deal_economics"`
	Team           TeamConfig                  `json:"team"`
	Compensation   map[string]RoleCompensation `json:"compensation"`
	OperatingCosts OperatingCosts              `json:"operating_costs"`
	Channels       []ChannelConfig             `json:"gtm_channels"`
}

// TeamConfig carries assumptions about the team and the book of business
// that are not tied to a single role.
type TeamConfig struct {
	// RetentionRate is GRR: the fraction of deferred revenue expected to be
	// collected, in [0,1].
	RetentionRate decimal.Decimal `json:"retention_rate"`
}

// OperatingCosts are the non-channel, non-compensation monthly cost lines.
type OperatingCosts struct {
	FixedMonthly decimal.Decimal `json:"fixed_monthly"`
	GovFeePct    decimal.Decimal `json:"gov_fee_pct"`
}

// Normalize fills documented fallbacks for fields a partial config omits.
// It returns a copy; the receiver is unchanged.
func (c ScenarioConfig) Normalize() ScenarioConfig {
	if c.Deal.Method == "" {
		c.Deal.Method = CalcDirect
	}
	if c.Deal.Policy == "" {
		c.Deal.Policy = PolicyUpfront
	}
	if c.Deal.ContractLengthMonths == 0 {
		c.Deal.ContractLengthMonths = 12
	}
	if c.Compensation == nil {
		c.Compensation = map[string]RoleCompensation{}
	}
	channels := make([]ChannelConfig, len(c.Channels))
	copy(channels, c.Channels)
	for i := range channels {
		if channels[i].ID == "" {
			channels[i].ID = fmt.Sprintf("channel-%d", i+1)
		}
		if channels[i].Segment == "" {
			channels[i].Segment = SegmentCustom
		}
		if channels[i].CostMethod == "" {
			channels[i].CostMethod = CostPerLead
		}
	}
	c.Channels = channels
	return c
}

// Hash returns the hex SHA-256 of the canonical JSON encoding of the full
// config. Every input that affects an evaluation is part of the struct, so
// the hash is a complete memoization key; encoding/json sorts map keys,
// keeping the encoding deterministic.
func (c ScenarioConfig) Hash() string {
	raw, err := json.Marshal(c)
	if err != nil {
		// Marshal of this struct cannot fail; keep the signature simple.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// DefaultConfig seeds a new scenario with a working baseline: a direct
// $50k/12mo deal at a 70/30 split, a small closing team, and one SMB
// outbound channel.
func DefaultConfig() ScenarioConfig {
	return ScenarioConfig{
		Deal: DealInput{
			Method:               CalcDirect,
			DealValue:            decimal.NewFromInt(50000),
			ContractLengthMonths: 12,
			UpfrontPct:           decimal.NewFromInt(70),
			Policy:               PolicyUpfront,
		},
		Team: TeamConfig{
			RetentionRate: decimal.NewFromFloat(0.9),
		},
		Compensation: map[string]RoleCompensation{
			RoleCloser: {
				Count:          4,
				BaseSalary:     decimal.NewFromInt(6000),
				VariableTarget: decimal.NewFromInt(6000),
				CommissionPct:  decimal.NewFromFloat(0.2),
			},
			RoleSetter: {
				Count:          2,
				BaseSalary:     decimal.NewFromInt(4000),
				VariableTarget: decimal.NewFromInt(2000),
				CommissionPct:  decimal.NewFromFloat(0.03),
			},
			RoleManager: {
				Count:          1,
				BaseSalary:     decimal.NewFromInt(10000),
				VariableTarget: decimal.NewFromInt(5000),
				CommissionPct:  decimal.NewFromFloat(0.02),
			},
			RoleBench: {
				Count:      1,
				BaseSalary: decimal.NewFromInt(3000),
			},
		},
		OperatingCosts: OperatingCosts{
			FixedMonthly: decimal.NewFromInt(20000),
			GovFeePct:    decimal.NewFromInt(5),
		},
		Channels: []ChannelConfig{
			ChannelPreset(SegmentSMB),
		},
	}
}

// ChannelPreset returns the seeded funnel assumptions for a segment. The
// numbers are starting points a user is expected to overwrite.
func ChannelPreset(seg Segment) ChannelConfig {
	switch seg {
	case SegmentSMB:
		return ChannelConfig{
			Name:         "SMB outbound",
			Segment:      SegmentSMB,
			MonthlyLeads: decimal.NewFromInt(1000),
			CostMethod:   CostPerLead,
			CostAmount:   decimal.NewFromInt(25),
			ContactRate:  decimal.NewFromFloat(0.65),
			MeetingRate:  decimal.NewFromFloat(0.4),
			ShowUpRate:   decimal.NewFromFloat(0.7),
			CloseRate:    decimal.NewFromFloat(0.3),
		}
	case SegmentMid:
		return ChannelConfig{
			Name:         "Mid-market outbound",
			Segment:      SegmentMid,
			MonthlyLeads: decimal.NewFromInt(400),
			CostMethod:   CostPerLead,
			CostAmount:   decimal.NewFromInt(60),
			ContactRate:  decimal.NewFromFloat(0.55),
			MeetingRate:  decimal.NewFromFloat(0.35),
			ShowUpRate:   decimal.NewFromFloat(0.75),
			CloseRate:    decimal.NewFromFloat(0.25),
		}
	case SegmentEnt:
		return ChannelConfig{
			Name:         "Enterprise ABM",
			Segment:      SegmentEnt,
			MonthlyLeads: decimal.NewFromInt(80),
			CostMethod:   CostPerLead,
			CostAmount:   decimal.NewFromInt(250),
			ContactRate:  decimal.NewFromFloat(0.5),
			MeetingRate:  decimal.NewFromFloat(0.3),
			ShowUpRate:   decimal.NewFromFloat(0.8),
			CloseRate:    decimal.NewFromFloat(0.2),
		}
	default:
		return ChannelConfig{
			Name:       "Custom channel",
			Segment:    SegmentCustom,
			CostMethod: CostPerLead,
		}
	}
}
