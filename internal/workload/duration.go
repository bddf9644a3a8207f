// Package workload converts a task's raw inputs into a processing duration.
package workload

const (
	// SecondsPerPackage is the fixed handling cost of a single package.
	SecondsPerPackage = 40
	// PalletPenaltySeconds is the fixed surcharge applied when a delivery
	// arrives on a non-conforming pallet.
	PalletPenaltySeconds = 20 * 60
)

// EstimateSeconds computes the processing duration for a delivery. The result
// is the per-package cost, plus the pallet penalty when the pallet condition
// is not OK, plus any manual delay. Negative inputs clamp to zero, so the
// function has no failure modes.
func EstimateSeconds(packages int, palletConditionOK bool, manualDelayMinutes int) int {
	if packages < 0 {
		packages = 0
	}
	if manualDelayMinutes < 0 {
		manualDelayMinutes = 0
	}

	seconds := packages * SecondsPerPackage
	if !palletConditionOK {
		seconds += PalletPenaltySeconds
	}
	return seconds + manualDelayMinutes*60
}
