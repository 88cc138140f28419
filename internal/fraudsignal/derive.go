// Package fraudsignal resolves the dynamic fraud telemetry (device behavior
// and transaction anomaly scores) and derives a routing action from it.
package fraudsignal

import (
	"fmt"
	"strings"

	"originate/internal/decision/models"
)

// Reason codes, appended in this order.
const (
	ReasonDeviceHigh     = "FS_DEVICE_HIGH"
	ReasonTxHigh         = "FS_TX_HIGH"
	ReasonDualSignalHigh = "FS_DUAL_SIGNAL_HIGH"
)

// Thresholds configure derivation. DoubleHighAction is the action taken when
// both scores are high and must be REVIEW or BLOCK.
type Thresholds struct {
	DeviceHigh       float64
	TxHigh           float64
	DoubleHighAction models.FraudAction
}

// DefaultThresholds returns 0.80/0.80 with REVIEW on a double high.
func DefaultThresholds() Thresholds {
	return Thresholds{DeviceHigh: 0.80, TxHigh: 0.80, DoubleHighAction: models.FraudActionReview}
}

// ParseDoubleHighAction accepts REVIEW or BLOCK, case-insensitively.
func ParseDoubleHighAction(raw string) (models.FraudAction, error) {
	switch a := models.FraudAction(strings.ToUpper(strings.TrimSpace(raw))); a {
	case models.FraudActionReview, models.FraudActionBlock:
		return a, nil
	default:
		return "", fmt.Errorf("double high action must be REVIEW or BLOCK, got %q", raw)
	}
}

// Derivation is the outcome of applying thresholds to two scores.
type Derivation struct {
	DeviceSuspicious     bool
	TransactionAnomalous bool
	FraudSignalHigh      bool
	Action               models.FraudAction
	ReasonCodes          []string
}

// Derive flags each score at or above its threshold. Both high takes the
// configured action, one high steps up authentication, none allows.
func Derive(device, tx float64, thr Thresholds) Derivation {
	d := Derivation{
		DeviceSuspicious:     device >= thr.DeviceHigh,
		TransactionAnomalous: tx >= thr.TxHigh,
		ReasonCodes:          []string{},
	}
	d.FraudSignalHigh = d.DeviceSuspicious && d.TransactionAnomalous

	if d.DeviceSuspicious {
		d.ReasonCodes = append(d.ReasonCodes, ReasonDeviceHigh)
	}
	if d.TransactionAnomalous {
		d.ReasonCodes = append(d.ReasonCodes, ReasonTxHigh)
	}

	switch {
	case d.FraudSignalHigh:
		d.ReasonCodes = append(d.ReasonCodes, ReasonDualSignalHigh)
		d.Action = models.FraudActionReview
		if thr.DoubleHighAction == models.FraudActionBlock {
			d.Action = models.FraudActionBlock
		}
	case d.DeviceSuspicious || d.TransactionAnomalous:
		d.Action = models.FraudActionStepUp
	default:
		d.Action = models.FraudActionAllow
	}
	return d
}
