package engine

import "github.com/shopspring/decimal"

// GTMMetrics is the blended view over all enabled channels' funnels.
//
// Every blended rate is a ratio of summed volumes, never an arithmetic mean
// of per-channel rates: a mean would misstate the funnel whenever channel
// volumes differ.
type GTMMetrics struct {
	TotalLeads             decimal.Decimal `json:"total_leads"`
	TotalContacts          decimal.Decimal `json:"total_contacts"`
	TotalMeetingsScheduled decimal.Decimal `json:"total_meetings_scheduled"`
	TotalMeetingsHeld      decimal.Decimal `json:"total_meetings_held"`
	TotalSales             decimal.Decimal `json:"total_sales"`
	TotalRevenue           decimal.Decimal `json:"total_revenue"`
	TotalSpend             decimal.Decimal `json:"total_spend"`

	BlendedContactRate decimal.Decimal `json:"blended_contact_rate"`
	BlendedMeetingRate decimal.Decimal `json:"blended_meeting_rate"`
	BlendedShowUpRate  decimal.Decimal `json:"blended_show_up_rate"`
	BlendedCloseRate   decimal.Decimal `json:"blended_close_rate"`

	BlendedCAC  decimal.Decimal `json:"blended_cac"`
	BlendedROAS decimal.Decimal `json:"blended_roas"`
}

// Aggregate combines the funnels of the enabled channels. Pure summation,
// so the result is independent of channel order.
func Aggregate(funnels []ChannelFunnel) GTMMetrics {
	var m GTMMetrics
	for _, f := range funnels {
		m.TotalLeads = m.TotalLeads.Add(f.Leads)
		m.TotalContacts = m.TotalContacts.Add(f.Contacts)
		m.TotalMeetingsScheduled = m.TotalMeetingsScheduled.Add(f.MeetingsScheduled)
		m.TotalMeetingsHeld = m.TotalMeetingsHeld.Add(f.MeetingsHeld)
		m.TotalSales = m.TotalSales.Add(f.Sales)
		m.TotalRevenue = m.TotalRevenue.Add(f.Revenue)
		m.TotalSpend = m.TotalSpend.Add(f.Spend)
	}

	m.BlendedContactRate = ratio(m.TotalContacts, m.TotalLeads)
	m.BlendedMeetingRate = ratio(m.TotalMeetingsScheduled, m.TotalContacts)
	m.BlendedShowUpRate = ratio(m.TotalMeetingsHeld, m.TotalMeetingsScheduled)
	m.BlendedCloseRate = ratio(m.TotalSales, m.TotalMeetingsHeld)
	m.BlendedCAC = ratio(m.TotalSpend, m.TotalSales)
	m.BlendedROAS = ratio(m.TotalRevenue, m.TotalSpend)
	return m
}
