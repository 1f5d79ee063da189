package solar

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("invalid input")

	ErrPlantHasInverters    = errors.New("plant has inverters")
	ErrInverterHasTelemetry = errors.New("inverter has telemetry samples")
	ErrInverterHasAlerts    = errors.New("inverter has alerts")
	ErrRuleHasAlerts        = errors.New("rule has alerts")
)
