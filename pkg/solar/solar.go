package solar

import (
	"heliosdash.xyz/solar-monitor-service/pkg/db"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
)

// TelemetryInput is one reading handed to IngestTelemetry. Date and time
// default to "now" when left empty; the optional electrical fields stay nil
// when the inverter did not report them.
type TelemetryInput struct {
	MeasurementDate string
	MeasurementTime string
	GenerationKW    float64
	Temperature     *float64
	Voltage         *float64
	Current         *float64
	Frequency       *float64
}

type ITelemetry interface {
	IngestTelemetry(inverterID uint, input *TelemetryInput) (*models.TelemetrySample, error)
	GetInverterTelemetry(inverterID uint, limit int) ([]models.TelemetrySample, error)
}

type IRuleEngine interface {
	EvaluateInverter(inverterID uint) error
	EvaluateAllInverters() error
}

type IAlert interface {
	GetInverterAlerts(inverterID uint) ([]models.Alert, error)
	ListOpenAlerts() ([]models.Alert, error)
	ResolveAlert(alertID uint) error
}

type IReport interface {
	DailyGenerationByPlant(date string) ([]PlantGenerationRow, error)
	AverageEfficiencyByInverter(days int) ([]InverterEfficiencyRow, error)
	HourlyProfile(days int) ([]HourlyProfileRow, error)
	UnderperformingInverters(days int, threshold float64) ([]InverterEfficiencyRow, error)
	AlertCountsBySeverity() ([]SeverityCountRow, error)
	GenerationSeries(days int) ([]DailyGenerationPoint, error)
	TemperatureGenerationSeries(days int) ([]TemperatureGenerationRow, error)
	TopInverters(date string, limit int) ([]InverterGenerationRow, error)
	PanelStatusCounts() ([]StatusCountRow, error)
	ExecutiveSummary() (*Summary, error)
}

type IFleet interface {
	CreatePlant(input *models.Plant) error
	ListPlants() ([]models.Plant, error)
	DeletePlant(plantID uint) error

	CreateInverter(input *models.Inverter) error
	ListInverters(plantID uint) ([]models.Inverter, error)
	DeleteInverter(inverterID uint) error

	CreatePanel(input *models.SolarPanel) error

	CreateRule(input *models.Rule) error
	UpdateRule(ruleID uint, input *models.Rule) error
	SetRuleActive(ruleID uint, active bool) error
	ListRules() ([]models.Rule, error)
	DeleteRule(ruleID uint) error
}

type Solar struct {
	Db        db.DB
	Telemetry ITelemetry
	Rules     IRuleEngine
	Alert     IAlert
	Report    IReport
	Fleet     IFleet
}

type ServiceOpts struct {
	Telemetry ITelemetry
	Rules     IRuleEngine
	Alert     IAlert
	Report    IReport
	Fleet     IFleet
}

func (s *Solar) WithServices(opts ServiceOpts) *Solar {
	if opts.Telemetry != nil {
		s.Telemetry = opts.Telemetry
	}
	if opts.Rules != nil {
		s.Rules = opts.Rules
	}
	if opts.Alert != nil {
		s.Alert = opts.Alert
	}
	if opts.Report != nil {
		s.Report = opts.Report
	}
	if opts.Fleet != nil {
		s.Fleet = opts.Fleet
	}
	return s
}
