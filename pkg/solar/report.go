package solar

import (
	"sort"
	"time"

	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
)

type PlantGenerationRow struct {
	PlantID         uint
	PlantName       string
	TotalCapacityKW float64
	GenerationKW    float64
	UtilizationPct  float64
}

type InverterEfficiencyRow struct {
	InverterID    uint
	SerialCode    string
	PlantName     string
	CapacityKW    float64
	AvgEfficiency float64
	MinEfficiency float64
	MaxEfficiency float64
	SampleCount   int64
}

type HourlyProfileRow struct {
	Hour            int
	AvgGenerationKW float64
	AvgEfficiency   float64
	AvgTemperature  float64
}

type SeverityCountRow struct {
	Severity          models.Severity
	Count             int64
	AffectedInverters int64
}

type DailyGenerationPoint struct {
	Date         string
	GenerationKW float64
}

type TemperatureGenerationRow struct {
	Date           string
	AvgTemperature float64
	GenerationKW   float64
}

type InverterGenerationRow struct {
	InverterID    uint
	SerialCode    string
	Model         string
	PlantName     string
	GenerationKW  float64
	AvgEfficiency float64
}

type StatusCountRow struct {
	Status string
	Count  int64
}

type Summary struct {
	TotalPlants        int64
	TotalInverters     int64
	TotalPanels        int64
	OpenAlerts         int64
	GenerationTodayKW  float64
	AvgEfficiencyToday float64
}

// dailyGenerationByPlant sums generation per plant for one date. Plants with
// no inverters or no samples on that date come back with 0.0, never missing.
func (s *Solar) dailyGenerationByPlant(date string) ([]PlantGenerationRow, error) {
	var rows []PlantGenerationRow
	err := s.Db.Conn.
		Table("plants").
		Select(`plants.id AS plant_id,
			plants.name AS plant_name,
			plants.total_capacity_kw,
			COALESCE(SUM(telemetry_samples.generation_kw), 0) AS generation_kw`).
		Joins("LEFT JOIN inverters ON inverters.plant_id = plants.id").
		Joins(`LEFT JOIN telemetry_samples ON telemetry_samples.inverter_id = inverters.id
			AND telemetry_samples.measurement_date = ?`, date).
		Group("plants.id, plants.name, plants.total_capacity_kw").
		Order("generation_kw DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].TotalCapacityKW > 0 {
			rows[i].UtilizationPct = (rows[i].GenerationKW / rows[i].TotalCapacityKW) * 100
		}
	}
	return rows, nil
}

// averageEfficiencyByInverter averages efficiency per operational inverter over
// the trailing window. Inverters with no qualifying samples are excluded, so
// "no data" never reads as a zero.
func (s *Solar) averageEfficiencyByInverter(days int) ([]InverterEfficiencyRow, error) {
	since := common.DaysAgo(days)

	var rows []InverterEfficiencyRow
	err := s.Db.Conn.
		Table("inverters").
		Select(`inverters.id AS inverter_id,
			inverters.serial_code,
			inverters.capacity_kw,
			plants.name AS plant_name,
			AVG(telemetry_samples.efficiency) AS avg_efficiency,
			MIN(telemetry_samples.efficiency) AS min_efficiency,
			MAX(telemetry_samples.efficiency) AS max_efficiency,
			COUNT(telemetry_samples.id) AS sample_count`).
		Joins("JOIN plants ON plants.id = inverters.plant_id").
		Joins(`JOIN telemetry_samples ON telemetry_samples.inverter_id = inverters.id
			AND telemetry_samples.measurement_date >= ?
			AND telemetry_samples.measurement_date <= ?
			AND telemetry_samples.efficiency IS NOT NULL`, since, common.Today()).
		Where("inverters.status = ?", "operational").
		Group("inverters.id, inverters.serial_code, inverters.capacity_kw, plants.name").
		Having("COUNT(telemetry_samples.id) > 0").
		Order("avg_efficiency DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Solar) hourlyProfile(days int) ([]HourlyProfileRow, error) {
	since := common.DaysAgo(days)

	var rows []HourlyProfileRow
	err := s.Db.Conn.
		Table("telemetry_samples").
		Select(`CAST(strftime('%H', measurement_time) AS INTEGER) AS hour,
			COALESCE(AVG(generation_kw), 0) AS avg_generation_kw,
			COALESCE(AVG(efficiency), 0) AS avg_efficiency,
			COALESCE(AVG(temperature), 0) AS avg_temperature`).
		Where("measurement_date >= ? AND measurement_date <= ?", since, common.Today()).
		Group("strftime('%H', measurement_time)").
		Order("hour").
		Scan(&rows).Error
	return rows, err
}

func (s *Solar) underperformingInverters(days int, threshold float64) ([]InverterEfficiencyRow, error) {
	since := common.DaysAgo(days)

	var rows []InverterEfficiencyRow
	err := s.Db.Conn.
		Table("inverters").
		Select(`inverters.id AS inverter_id,
			inverters.serial_code,
			inverters.capacity_kw,
			plants.name AS plant_name,
			AVG(telemetry_samples.efficiency) AS avg_efficiency,
			MIN(telemetry_samples.efficiency) AS min_efficiency,
			MAX(telemetry_samples.efficiency) AS max_efficiency,
			COUNT(telemetry_samples.id) AS sample_count`).
		Joins("JOIN plants ON plants.id = inverters.plant_id").
		Joins(`JOIN telemetry_samples ON telemetry_samples.inverter_id = inverters.id
			AND telemetry_samples.measurement_date >= ?
			AND telemetry_samples.measurement_date <= ?
			AND telemetry_samples.efficiency IS NOT NULL`, since, common.Today()).
		Where("inverters.status = ?", "operational").
		Group("inverters.id, inverters.serial_code, inverters.capacity_kw, plants.name").
		Having("AVG(telemetry_samples.efficiency) < ?", threshold).
		Order("avg_efficiency ASC").
		Scan(&rows).Error
	return rows, err
}

// alertCountsBySeverity counts open alerts per severity. The fixed display
// order (critical, high, medium, low, then anything unknown) is applied here
// rather than in SQL.
func (s *Solar) alertCountsBySeverity() ([]SeverityCountRow, error) {
	var rows []SeverityCountRow
	err := s.Db.Conn.
		Table("alerts").
		Select(`severity,
			COUNT(id) AS count,
			COUNT(DISTINCT inverter_id) AS affected_inverters`).
		Where("resolved = ?", false).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return severityRank(rows[i].Severity) < severityRank(rows[j].Severity)
	})
	return rows, nil
}

// generationSeries returns one point per day over the trailing window, filling
// days with no samples with 0.0 so charts always span the full range.
func (s *Solar) generationSeries(days int) ([]DailyGenerationPoint, error) {
	start := time.Now().AddDate(0, 0, -(days - 1))
	since := start.Format(common.DateLayout)

	var rows []DailyGenerationPoint
	err := s.Db.Conn.
		Table("telemetry_samples").
		Select(`measurement_date AS date, SUM(generation_kw) AS generation_kw`).
		Where("measurement_date >= ? AND measurement_date <= ?", since, common.Today()).
		Group("measurement_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDate := common.Reducer(rows,
		func(acc map[string]float64, row DailyGenerationPoint) map[string]float64 {
			acc[row.Date] = row.GenerationKW
			return acc
		},
		make(map[string]float64, len(rows)))

	series := make([]DailyGenerationPoint, days)
	for i := range days {
		day := start.AddDate(0, 0, i).Format(common.DateLayout)
		series[i] = DailyGenerationPoint{Date: day, GenerationKW: byDate[day]}
	}
	return series, nil
}

// temperatureGenerationSeries pairs the day's average temperature with its
// total generation, one row per day that has samples in the window.
func (s *Solar) temperatureGenerationSeries(days int) ([]TemperatureGenerationRow, error) {
	since := common.DaysAgo(days)

	var rows []TemperatureGenerationRow
	err := s.Db.Conn.
		Table("telemetry_samples").
		Select(`measurement_date AS date,
			COALESCE(AVG(temperature), 0) AS avg_temperature,
			COALESCE(SUM(generation_kw), 0) AS generation_kw`).
		Where("measurement_date >= ? AND measurement_date <= ?", since, common.Today()).
		Group("measurement_date").
		Order("measurement_date").
		Scan(&rows).Error
	return rows, err
}

func (s *Solar) topInverters(date string, limit int) ([]InverterGenerationRow, error) {
	var rows []InverterGenerationRow
	err := s.Db.Conn.
		Table("inverters").
		Select(`inverters.id AS inverter_id,
			inverters.serial_code,
			inverters.model,
			plants.name AS plant_name,
			SUM(telemetry_samples.generation_kw) AS generation_kw,
			COALESCE(AVG(telemetry_samples.efficiency), 0) AS avg_efficiency`).
		Joins("JOIN plants ON plants.id = inverters.plant_id").
		Joins(`JOIN telemetry_samples ON telemetry_samples.inverter_id = inverters.id
			AND telemetry_samples.measurement_date = ?`, date).
		Group("inverters.id, inverters.serial_code, inverters.model, plants.name").
		Order("generation_kw DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (s *Solar) panelStatusCounts() ([]StatusCountRow, error) {
	var rows []StatusCountRow
	err := s.Db.Conn.
		Table("solar_panels").
		Select("status, COUNT(id) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (s *Solar) executiveSummary() (*Summary, error) {
	summary := &Summary{}

	if err := s.Db.Conn.Model(&models.Plant{}).Count(&summary.TotalPlants).Error; err != nil {
		return nil, err
	}
	if err := s.Db.Conn.Model(&models.Inverter{}).Count(&summary.TotalInverters).Error; err != nil {
		return nil, err
	}
	if err := s.Db.Conn.Model(&models.SolarPanel{}).Count(&summary.TotalPanels).Error; err != nil {
		return nil, err
	}
	if err := s.Db.Conn.Model(&models.Alert{}).
		Where("resolved = ?", false).
		Count(&summary.OpenAlerts).Error; err != nil {
		return nil, err
	}

	today := common.Today()

	if err := s.Db.Conn.
		Table("telemetry_samples").
		Select("COALESCE(SUM(generation_kw), 0)").
		Where("measurement_date = ?", today).
		Scan(&summary.GenerationTodayKW).Error; err != nil {
		return nil, err
	}

	if err := s.Db.Conn.
		Table("telemetry_samples").
		Select("COALESCE(AVG(efficiency), 0)").
		Where("measurement_date = ? AND efficiency IS NOT NULL", today).
		Scan(&summary.AvgEfficiencyToday).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

type IReportImpl struct {
	solar *Solar
}

func (ir *IReportImpl) DailyGenerationByPlant(date string) ([]PlantGenerationRow, error) {
	return ir.solar.dailyGenerationByPlant(date)
}

func (ir *IReportImpl) AverageEfficiencyByInverter(days int) ([]InverterEfficiencyRow, error) {
	return ir.solar.averageEfficiencyByInverter(days)
}

func (ir *IReportImpl) HourlyProfile(days int) ([]HourlyProfileRow, error) {
	return ir.solar.hourlyProfile(days)
}

func (ir *IReportImpl) UnderperformingInverters(days int, threshold float64) ([]InverterEfficiencyRow, error) {
	return ir.solar.underperformingInverters(days, threshold)
}

func (ir *IReportImpl) AlertCountsBySeverity() ([]SeverityCountRow, error) {
	return ir.solar.alertCountsBySeverity()
}

func (ir *IReportImpl) GenerationSeries(days int) ([]DailyGenerationPoint, error) {
	return ir.solar.generationSeries(days)
}

func (ir *IReportImpl) TemperatureGenerationSeries(days int) ([]TemperatureGenerationRow, error) {
	return ir.solar.temperatureGenerationSeries(days)
}

func (ir *IReportImpl) TopInverters(date string, limit int) ([]InverterGenerationRow, error) {
	return ir.solar.topInverters(date, limit)
}

func (ir *IReportImpl) PanelStatusCounts() ([]StatusCountRow, error) {
	return ir.solar.panelStatusCounts()
}

func (ir *IReportImpl) ExecutiveSummary() (*Summary, error) {
	return ir.solar.executiveSummary()
}

func (s *Solar) GetIReport() IReport {
	return &IReportImpl{solar: s}
}
