package models

import "time"

type MetricType string

const (
	MetricTypeEfficiency  MetricType = "efficiency"
	MetricTypeTemperature MetricType = "temperature"
	MetricTypeGeneration  MetricType = "generation"
	MetricTypeVoltage     MetricType = "voltage"
	MetricTypeCurrent     MetricType = "current"
	MetricTypeFrequency   MetricType = "frequency"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Plant struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Location        string
	TotalCapacityKW float64
	InstallDate     string `gorm:"type:date"`
	Status          string `gorm:"type:varchar(20);default:active;check:status IN ('active','inactive','maintenance')"`
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Inverters []Inverter `gorm:"foreignKey:PlantID"`
}

type Inverter struct {
	ID               uint   `gorm:"primaryKey"`
	SerialCode       string `gorm:"uniqueIndex;not null"`
	Model            string
	CapacityKW       float64
	InstallDate      string `gorm:"type:date"`
	Status           string `gorm:"type:varchar(20);default:operational;check:status IN ('operational','maintenance','inactive')"`
	PhysicalLocation string
	PlantID          uint `gorm:"index;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Samples []TelemetrySample `gorm:"foreignKey:InverterID"`
	Alerts  []Alert           `gorm:"foreignKey:InverterID"`
	Panels  []SolarPanel      `gorm:"foreignKey:InverterID"`
}

type SolarPanel struct {
	ID          uint   `gorm:"primaryKey"`
	SerialCode  string `gorm:"uniqueIndex;not null"`
	Model       string
	PowerWP     float64
	AreaM2      float64
	InverterID  uint   `gorm:"index;not null"`
	Status      string `gorm:"type:varchar(20);default:on;check:status IN ('on','off','maintenance')"`
	InstallDate string `gorm:"type:date"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TelemetrySample is insert-only; rows are never updated after creation.
// MeasurementDate and MeasurementTime are ISO strings ("2006-01-02", "15:04:05")
// so lexicographic ordering matches chronological ordering in sqlite.
type TelemetrySample struct {
	ID              uint   `gorm:"primaryKey"`
	InverterID      uint   `gorm:"index;not null"`
	MeasurementDate string `gorm:"type:date;index;not null"`
	MeasurementTime string `gorm:"type:time;not null"`
	GenerationKW    float64
	Temperature     *float64
	Voltage         *float64
	Current         *float64
	Frequency       *float64
	// Efficiency is a snapshot computed at ingestion from the inverter
	// capacity at that moment; it is never recomputed.
	Efficiency *float64
	RecordedAt time.Time
}

type Rule struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	MetricType  MetricType `gorm:"type:varchar(20);not null"`
	Operator    string     `gorm:"type:varchar(10);not null"`
	Threshold   float64
	Severity    Severity `gorm:"type:varchar(20);default:medium"`
	Active      bool     `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Alerts []Alert `gorm:"foreignKey:RuleID"`
}

type Alert struct {
	ID         uint `gorm:"primaryKey"`
	InverterID uint `gorm:"index;not null"`
	RuleID     uint `gorm:"index;not null"`
	Message    string
	Severity   Severity `gorm:"type:varchar(20);not null"`
	Resolved   bool     `gorm:"default:false"`
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
