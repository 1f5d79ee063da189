package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
	"heliosdash.xyz/solar-monitor-service/pkg/solar"
)

// errStatus maps the core sentinel errors onto HTTP status codes; anything
// unrecognized is a 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, solar.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, solar.ErrConflict),
		errors.Is(err, solar.ErrPlantHasInverters),
		errors.Is(err, solar.ErrInverterHasTelemetry),
		errors.Is(err, solar.ErrInverterHasAlerts),
		errors.Is(err, solar.ErrRuleHasAlerts):
		return http.StatusConflict
	case errors.Is(err, solar.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.DefaultQuery(name, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return value, true
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type TelemetryRequest struct {
	InverterID      int      `json:"inverter_id"`
	GenerationKW    float64  `json:"generation_kw"`
	MeasurementDate string   `json:"measurement_date"`
	MeasurementTime string   `json:"measurement_time"`
	Temperature     *float64 `json:"temperature"`
	Voltage         *float64 `json:"voltage"`
	Current         *float64 `json:"current"`
	Frequency       *float64 `json:"frequency"`
}

var telemetryRequestSchema = z.Struct(z.Shape{
	"InverterID":      z.Int().Required().GT(0),
	"GenerationKW":    z.Float64().Required(),
	"MeasurementDate": z.String().Optional(),
	"MeasurementTime": z.String().Optional(),
	"Temperature":     z.Ptr(z.Float64()),
	"Voltage":         z.Ptr(z.Float64()),
	"Current":         z.Ptr(z.Float64()),
	"Frequency":       z.Ptr(z.Float64()),
})

func (rs *RestfulServer) PostTelemetry(c *gin.Context) {
	var req TelemetryRequest
	if err := telemetryRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if req.MeasurementDate != "" {
		if _, err := time.Parse(common.DateLayout, req.MeasurementDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid measurement_date, use YYYY-MM-DD"})
			return
		}
	}
	if req.MeasurementTime != "" {
		if _, err := time.Parse(common.TimeLayout, req.MeasurementTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid measurement_time, use HH:MM:SS"})
			return
		}
	}

	inverterID := uint(req.InverterID)

	if !rs.CheckInverterLimiter(inverterID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	sample, err := rs.Solar.Telemetry.IngestTelemetry(inverterID, &solar.TelemetryInput{
		MeasurementDate: req.MeasurementDate,
		MeasurementTime: req.MeasurementTime,
		GenerationKW:    req.GenerationKW,
		Temperature:     req.Temperature,
		Voltage:         req.Voltage,
		Current:         req.Current,
		Frequency:       req.Frequency,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sample_id": sample.ID})
}

func (rs *RestfulServer) GetInverterTelemetry(c *gin.Context) {
	inverterID, ok := pathID(c, "inverter_id")
	if !ok {
		return
	}

	if !rs.CheckInverterLimiter(inverterID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}

	samples, err := rs.Solar.Telemetry.GetInverterTelemetry(inverterID, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, samples)
}

func (rs *RestfulServer) GetInverterAlerts(c *gin.Context) {
	inverterID, ok := pathID(c, "inverter_id")
	if !ok {
		return
	}

	alerts, err := rs.Solar.Alert.GetInverterAlerts(inverterID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	inverterID, ok := pathID(c, "inverter_id")
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(inverterID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ListOpenAlerts(c *gin.Context) {
	alerts, err := rs.Solar.Alert.ListOpenAlerts()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) ResolveAlert(c *gin.Context) {
	alertID, ok := pathID(c, "alert_id")
	if !ok {
		return
	}

	if err := rs.Solar.Alert.ResolveAlert(alertID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) RunEvaluations(c *gin.Context) {
	if err := rs.Solar.Rules.EvaluateAllInverters(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

type PlantRequest struct {
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	TotalCapacityKW float64 `json:"total_capacity_kw"`
	InstallDate     string  `json:"install_date"`
	Status          string  `json:"status"`
	Description     string  `json:"description"`
}

var plantRequestSchema = z.Struct(z.Shape{
	"Name":            z.String().Required(),
	"Location":        z.String().Optional(),
	"TotalCapacityKW": z.Float64().Required(),
	"InstallDate":     z.String().Optional(),
	"Status":          z.String().Optional(),
	"Description":     z.String().Optional(),
})

func (rs *RestfulServer) CreatePlant(c *gin.Context) {
	var req PlantRequest
	if err := plantRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	plant := models.Plant{
		Name:            req.Name,
		Location:        req.Location,
		TotalCapacityKW: req.TotalCapacityKW,
		InstallDate:     req.InstallDate,
		Description:     req.Description,
	}
	if req.Status != "" {
		plant.Status = req.Status
	}

	if err := rs.Solar.Fleet.CreatePlant(&plant); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plant_id": plant.ID})
}

func (rs *RestfulServer) ListPlants(c *gin.Context) {
	plants, err := rs.Solar.Fleet.ListPlants()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, plants)
}

func (rs *RestfulServer) DeletePlant(c *gin.Context) {
	plantID, ok := pathID(c, "plant_id")
	if !ok {
		return
	}

	if err := rs.Solar.Fleet.DeletePlant(plantID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

type InverterRequest struct {
	SerialCode       string  `json:"serial_code"`
	Model            string  `json:"model"`
	CapacityKW       float64 `json:"capacity_kw"`
	InstallDate      string  `json:"install_date"`
	Status           string  `json:"status"`
	PhysicalLocation string  `json:"physical_location"`
	PlantID          int     `json:"plant_id"`
}

var inverterRequestSchema = z.Struct(z.Shape{
	"SerialCode":       z.String().Required(),
	"Model":            z.String().Optional(),
	"CapacityKW":       z.Float64().Required(),
	"InstallDate":      z.String().Optional(),
	"Status":           z.String().Optional(),
	"PhysicalLocation": z.String().Optional(),
	"PlantID":          z.Int().Required().GT(0),
})

func (rs *RestfulServer) CreateInverter(c *gin.Context) {
	var req InverterRequest
	if err := inverterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	inverter := models.Inverter{
		SerialCode:       req.SerialCode,
		Model:            req.Model,
		CapacityKW:       req.CapacityKW,
		InstallDate:      req.InstallDate,
		PhysicalLocation: req.PhysicalLocation,
		PlantID:          uint(req.PlantID),
	}
	if req.Status != "" {
		inverter.Status = req.Status
	}

	if err := rs.Solar.Fleet.CreateInverter(&inverter); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inverter_id": inverter.ID})
}

func (rs *RestfulServer) ListInverters(c *gin.Context) {
	plantID, ok := queryInt(c, "plant_id", 0)
	if !ok {
		return
	}

	inverters, err := rs.Solar.Fleet.ListInverters(uint(plantID))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, inverters)
}

func (rs *RestfulServer) DeleteInverter(c *gin.Context) {
	inverterID, ok := pathID(c, "inverter_id")
	if !ok {
		return
	}

	if err := rs.Solar.Fleet.DeleteInverter(inverterID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

type PanelRequest struct {
	SerialCode  string  `json:"serial_code"`
	Model       string  `json:"model"`
	PowerWP     float64 `json:"power_wp"`
	AreaM2      float64 `json:"area_m2"`
	InverterID  int     `json:"inverter_id"`
	Status      string  `json:"status"`
	InstallDate string  `json:"install_date"`
}

var panelRequestSchema = z.Struct(z.Shape{
	"SerialCode":  z.String().Required(),
	"Model":       z.String().Optional(),
	"PowerWP":     z.Float64().Required(),
	"AreaM2":      z.Float64().Optional(),
	"InverterID":  z.Int().Required().GT(0),
	"Status":      z.String().Optional(),
	"InstallDate": z.String().Optional(),
})

func (rs *RestfulServer) CreatePanel(c *gin.Context) {
	var req PanelRequest
	if err := panelRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	panel := models.SolarPanel{
		SerialCode:  req.SerialCode,
		Model:       req.Model,
		PowerWP:     req.PowerWP,
		AreaM2:      req.AreaM2,
		InverterID:  uint(req.InverterID),
		InstallDate: req.InstallDate,
	}
	if req.Status != "" {
		panel.Status = req.Status
	}

	if err := rs.Solar.Fleet.CreatePanel(&panel); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"panel_id": panel.ID})
}

type RuleRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MetricType  string  `json:"metric_type"`
	Operator    string  `json:"operator"`
	Threshold   float64 `json:"threshold"`
	Severity    string  `json:"severity"`
	Active      bool    `json:"active"`
}

var ruleRequestSchema = z.Struct(z.Shape{
	"Name":        z.String().Required(),
	"Description": z.String().Optional(),
	"MetricType":  z.String().Required(),
	"Operator":    z.String().Required(),
	"Threshold":   z.Float64().Required(),
	"Severity":    z.String().Optional(),
	"Active":      z.Bool().Optional(),
})

func ruleFromRequest(req *RuleRequest) *models.Rule {
	rule := &models.Rule{
		Name:        req.Name,
		Description: req.Description,
		MetricType:  models.MetricType(req.MetricType),
		Operator:    req.Operator,
		Threshold:   req.Threshold,
		Severity:    models.Severity(req.Severity),
		Active:      req.Active,
	}
	if req.Severity == "" {
		rule.Severity = models.SeverityMedium
	}
	return rule
}

func (rs *RestfulServer) CreateRule(c *gin.Context) {
	var req RuleRequest
	if err := ruleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rule := ruleFromRequest(&req)
	if err := rs.Solar.Fleet.CreateRule(rule); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule_id": rule.ID})
}

func (rs *RestfulServer) UpdateRule(c *gin.Context) {
	ruleID, ok := pathID(c, "rule_id")
	if !ok {
		return
	}

	var req RuleRequest
	if err := ruleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Solar.Fleet.UpdateRule(ruleID, ruleFromRequest(&req)); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

type RuleActiveRequest struct {
	Active bool `json:"active"`
}

var ruleActiveRequestSchema = z.Struct(z.Shape{
	"Active": z.Bool().Required(),
})

func (rs *RestfulServer) SetRuleActive(c *gin.Context) {
	ruleID, ok := pathID(c, "rule_id")
	if !ok {
		return
	}

	var req RuleActiveRequest
	if err := ruleActiveRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Solar.Fleet.SetRuleActive(ruleID, req.Active); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ListRules(c *gin.Context) {
	rules, err := rs.Solar.Fleet.ListRules()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (rs *RestfulServer) DeleteRule(c *gin.Context) {
	ruleID, ok := pathID(c, "rule_id")
	if !ok {
		return
	}

	if err := rs.Solar.Fleet.DeleteRule(ruleID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ReportDailyGeneration(c *gin.Context) {
	date := c.DefaultQuery("date", common.Today())
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	rows, err := rs.Solar.Report.DailyGenerationByPlant(date)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportInverterEfficiency(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}

	rows, err := rs.Solar.Report.AverageEfficiencyByInverter(days)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportHourlyProfile(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}

	rows, err := rs.Solar.Report.HourlyProfile(days)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportUnderperforming(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}

	threshold := 80.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
			return
		}
		threshold = parsed
	}

	rows, err := rs.Solar.Report.UnderperformingInverters(days, threshold)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportAlertCounts(c *gin.Context) {
	rows, err := rs.Solar.Report.AlertCountsBySeverity()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportGenerationSeries(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}

	rows, err := rs.Solar.Report.GenerationSeries(days)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportTemperatureGeneration(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}

	rows, err := rs.Solar.Report.TemperatureGenerationSeries(days)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportTopInverters(c *gin.Context) {
	date := c.DefaultQuery("date", common.Today())
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}

	rows, err := rs.Solar.Report.TopInverters(date, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportPanelStatus(c *gin.Context) {
	rows, err := rs.Solar.Report.PanelStatusCounts()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ReportSummary(c *gin.Context) {
	summary, err := rs.Solar.Report.ExecutiveSummary()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
