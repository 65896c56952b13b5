package engine

import (
	"github.com/shopspring/decimal"
)

// Segment is a coarse customer-size bucket used for channel presets.
type Segment string

const (
	SegmentSMB    Segment = "smb"
	SegmentMid    Segment = "mid"
	SegmentEnt    Segment = "ent"
	SegmentCustom Segment = "custom"
)

// CostMethod selects the point in the funnel where the channel's cost is
// specified. All methods reconcile to one effective cost per lead so four
// different cost-input UIs agree on a single internal representation.
type CostMethod string

const (
	CostPerLead    CostMethod = "per_lead"
	CostPerContact CostMethod = "per_contact"
	CostPerMeeting CostMethod = "per_meeting"
	CostPerSale    CostMethod = "per_sale"
	CostBudget     CostMethod = "total_budget"
)

func (m CostMethod) Valid() bool {
	switch m {
	case CostPerLead, CostPerContact, CostPerMeeting, CostPerSale, CostBudget:
		return true
	}
	return false
}

// ChannelConfig is one marketing channel's funnel assumptions.
type ChannelConfig struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Segment Segment `json:"segment"`

	// Enabled defaults to true when absent so partial configs from older
	// exports keep their channels active.
	Enabled *bool `json:"enabled,omitempty"`

	MonthlyLeads decimal.Decimal `json:"monthly_leads"`
	CostMethod   CostMethod      `json:"cost_method"`
	CostAmount   decimal.Decimal `json:"cost_amount"`

	ContactRate decimal.Decimal `json:"contact_rate"`
	MeetingRate decimal.Decimal `json:"meeting_rate"`
	ShowUpRate  decimal.Decimal `json:"show_up_rate"`
	CloseRate   decimal.Decimal `json:"close_rate"`
}

func (c ChannelConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c ChannelConfig) validate() error {
	if err := checkNonNegative("monthly_leads", c.MonthlyLeads); err != nil {
		return err
	}
	if err := checkNonNegative("cost_amount", c.CostAmount); err != nil {
		return err
	}
	if !c.CostMethod.Valid() {
		return invalidInputf("cost_method", "unknown method %q", string(c.CostMethod))
	}
	if err := checkRate("contact_rate", c.ContactRate); err != nil {
		return err
	}
	if err := checkRate("meeting_rate", c.MeetingRate); err != nil {
		return err
	}
	if err := checkRate("show_up_rate", c.ShowUpRate); err != nil {
		return err
	}
	return checkRate("close_rate", c.CloseRate)
}

// ChannelFunnel is one channel's evaluated stage volumes and economics.
// Volumes are monotonically non-increasing because each stage is the
// previous stage times a rate in [0,1].
type ChannelFunnel struct {
	ChannelID string  `json:"channel_id"`
	Name      string  `json:"name"`
	Segment   Segment `json:"segment"`

	Leads             decimal.Decimal `json:"leads"`
	Contacts          decimal.Decimal `json:"contacts"`
	MeetingsScheduled decimal.Decimal `json:"meetings_scheduled"`
	MeetingsHeld      decimal.Decimal `json:"meetings_held"`
	Sales             decimal.Decimal `json:"sales"`

	EffectiveCostPerLead decimal.Decimal `json:"effective_cost_per_lead"`
	Spend                decimal.Decimal `json:"spend"`
	Revenue              decimal.Decimal `json:"revenue"`
	CostPerSale          decimal.Decimal `json:"cost_per_sale"`
	ROAS                 decimal.Decimal `json:"roas"`
}

// effectiveCostPerLead reconciles the channel's cost-input method to a cost
// per lead. A stage cost maps back through the cumulative conversion rate
// to that stage (cost per sale at cumulative rate r means each lead carries
// cost×r of spend); a total budget is divided across the month's leads. A
// zero cumulative product or zero lead volume yields a defined zero CPL.
func effectiveCostPerLead(c ChannelConfig) decimal.Decimal {
	switch c.CostMethod {
	case CostPerLead:
		return c.CostAmount
	case CostPerContact:
		return c.CostAmount.Mul(c.ContactRate)
	case CostPerMeeting:
		return c.CostAmount.Mul(c.ContactRate).Mul(c.MeetingRate).Mul(c.ShowUpRate)
	case CostPerSale:
		return c.CostAmount.Mul(c.ContactRate).Mul(c.MeetingRate).Mul(c.ShowUpRate).Mul(c.CloseRate)
	case CostBudget:
		return ratio(c.CostAmount, c.MonthlyLeads)
	default:
		return decimal.Zero
	}
}

// RunFunnel evaluates one channel against the per-deal commission base
// selected by the scenario's commission policy.
func RunFunnel(c ChannelConfig, commissionBase decimal.Decimal) (ChannelFunnel, error) {
	if err := c.validate(); err != nil {
		return ChannelFunnel{}, err
	}
	if err := checkNonNegative("commission_base", commissionBase); err != nil {
		return ChannelFunnel{}, err
	}

	leads := c.MonthlyLeads
	contacts := leads.Mul(c.ContactRate)
	meetingsScheduled := contacts.Mul(c.MeetingRate)
	meetingsHeld := meetingsScheduled.Mul(c.ShowUpRate)
	sales := meetingsHeld.Mul(c.CloseRate)

	cpl := effectiveCostPerLead(c)
	spend := leads.Mul(cpl)
	revenue := sales.Mul(commissionBase)

	return ChannelFunnel{
		ChannelID:            c.ID,
		Name:                 c.Name,
		Segment:              c.Segment,
		Leads:                leads,
		Contacts:             contacts,
		MeetingsScheduled:    meetingsScheduled,
		MeetingsHeld:         meetingsHeld,
		Sales:                sales,
		EffectiveCostPerLead: cpl,
		Spend:                spend,
		Revenue:              revenue,
		CostPerSale:          ratio(spend, sales),
		ROAS:                 ratio(revenue, spend),
	}, nil
}
