package alert

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gtmdash/internal/config"
	"gtmdash/internal/engine"
)

// Severity buckets an alert for UI color coding.
type Severity string

const (
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// Alert is one threshold breach derived from an evaluated snapshot.
type Alert struct {
	Code      string          `json:"code"`
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
	Value     decimal.Decimal `json:"value"`
	Threshold decimal.Decimal `json:"threshold"`
}

// Manager evaluates configured health thresholds against snapshots.
type Manager struct {
	Config config.AlertConfig
	Logger *zap.Logger
}

// Check returns the alerts a snapshot triggers, worst first is not
// guaranteed; order follows the fixed check sequence.
func (m *Manager) Check(snap *engine.Snapshot) []Alert {
	if m == nil || snap == nil {
		return nil
	}
	alerts := evaluateThresholds(m.Config, snap)
	if m.Logger != nil && len(alerts) > 0 {
		m.Logger.Debug("snapshot alerts", zap.Int("count", len(alerts)), zap.String("config_hash", snap.ConfigHash))
	}
	return alerts
}

// evaluateThresholds is a pure helper for threshold checks (testable
// without a logger or config file).
func evaluateThresholds(cfg config.AlertConfig, snap *engine.Snapshot) []Alert {
	var alerts []Alert

	// Payback sentinel means upfront cash cannot repay acquisition at all.
	if snap.UnitEconomics.PaybackMonths.Cmp(engine.PaybackSentinelMonths) >= 0 {
		alerts = append(alerts, Alert{
			Code:      "infeasible_payback",
			Severity:  SeverityCritical,
			Message:   "upfront cash is zero; acquisition cost can never be paid back from upfront collections",
			Value:     snap.UnitEconomics.PaybackMonths,
			Threshold: engine.PaybackSentinelMonths,
		})
	} else if cfg.MaxPaybackMonths > 0 {
		limit := decimal.NewFromFloat(cfg.MaxPaybackMonths)
		if snap.UnitEconomics.PaybackMonths.GreaterThan(limit) {
			alerts = append(alerts, Alert{
				Code:      "payback_too_long",
				Severity:  SeverityWarn,
				Message:   fmt.Sprintf("payback period %s months exceeds %s", snap.UnitEconomics.PaybackMonths.StringFixed(1), limit.StringFixed(1)),
				Value:     snap.UnitEconomics.PaybackMonths,
				Threshold: limit,
			})
		}
	}

	// LTV:CAC only means something once there is acquisition spend.
	if cfg.MinLTVCACRatio > 0 && snap.UnitEconomics.CostPerSale.Sign() > 0 {
		floor := decimal.NewFromFloat(cfg.MinLTVCACRatio)
		if snap.UnitEconomics.LTVCACRatio.LessThan(floor) {
			alerts = append(alerts, Alert{
				Code:      "ltv_cac_below_min",
				Severity:  SeverityWarn,
				Message:   fmt.Sprintf("LTV:CAC %s is below the %s floor", snap.UnitEconomics.LTVCACRatio.StringFixed(2), floor.StringFixed(2)),
				Value:     snap.UnitEconomics.LTVCACRatio,
				Threshold: floor,
			})
		}
	}

	if cfg.MaxBlendedCACUSD > 0 {
		cap := decimal.NewFromFloat(cfg.MaxBlendedCACUSD)
		if snap.GTM.BlendedCAC.GreaterThan(cap) {
			alerts = append(alerts, Alert{
				Code:      "cac_above_max",
				Severity:  SeverityWarn,
				Message:   fmt.Sprintf("blended CAC %s exceeds %s", snap.GTM.BlendedCAC.StringFixed(0), cap.StringFixed(0)),
				Value:     snap.GTM.BlendedCAC,
				Threshold: cap,
			})
		}
	}

	floor := decimal.NewFromFloat(cfg.MinEBITDAMarginPct)
	if snap.PnL.EBITDAMarginPct.LessThan(floor) {
		severity := SeverityWarn
		if snap.PnL.EBITDA.Sign() < 0 {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			Code:      "ebitda_margin_below_min",
			Severity:  severity,
			Message:   fmt.Sprintf("EBITDA margin %s%% is below the %s%% floor", snap.PnL.EBITDAMarginPct.StringFixed(1), floor.StringFixed(1)),
			Value:     snap.PnL.EBITDAMarginPct,
			Threshold: floor,
		})
	}

	return alerts
}
