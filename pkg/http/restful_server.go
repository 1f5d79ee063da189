package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"heliosdash.xyz/solar-monitor-service/pkg/solar"
)

type RestfulServer struct {
	Server           *gin.Engine
	Solar            *solar.Solar
	RateLimiterStore *solar.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(inverterID uint) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(inverterID)
	}
}

func (rs *RestfulServer) CheckInverterLimiter(inverterID uint) bool {
	limiter := rs.GetLimiter(inverterID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(inverterID uint, inverterRate float64, inverterBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(inverterID, rate.Limit(inverterRate), inverterBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	rs.Server.POST("/telemetry", rs.PostTelemetry)

	inverters := rs.Server.Group("/inverters")
	{
		inverters.GET("", rs.ListInverters)
		inverters.POST("", rs.CreateInverter)
		inverters.DELETE("/:inverter_id", rs.DeleteInverter)
		inverters.GET("/:inverter_id/telemetry", rs.GetInverterTelemetry)
		inverters.GET("/:inverter_id/alerts", rs.GetInverterAlerts)
		inverters.POST("/:inverter_id/limiter", rs.PostLimiter)
	}

	plants := rs.Server.Group("/plants")
	{
		plants.GET("", rs.ListPlants)
		plants.POST("", rs.CreatePlant)
		plants.DELETE("/:plant_id", rs.DeletePlant)
	}

	panels := rs.Server.Group("/panels")
	{
		panels.POST("", rs.CreatePanel)
	}

	rules := rs.Server.Group("/rules")
	{
		rules.GET("", rs.ListRules)
		rules.POST("", rs.CreateRule)
		rules.PUT("/:rule_id", rs.UpdateRule)
		rules.POST("/:rule_id/active", rs.SetRuleActive)
		rules.DELETE("/:rule_id", rs.DeleteRule)
	}

	alerts := rs.Server.Group("/alerts")
	{
		alerts.GET("", rs.ListOpenAlerts)
		alerts.POST("/:alert_id/resolve", rs.ResolveAlert)
	}

	rs.Server.POST("/evaluations", rs.RunEvaluations)

	reports := rs.Server.Group("/reports")
	{
		reports.GET("/daily-generation", rs.ReportDailyGeneration)
		reports.GET("/inverter-efficiency", rs.ReportInverterEfficiency)
		reports.GET("/hourly-profile", rs.ReportHourlyProfile)
		reports.GET("/underperforming", rs.ReportUnderperforming)
		reports.GET("/alert-counts", rs.ReportAlertCounts)
		reports.GET("/generation-series", rs.ReportGenerationSeries)
		reports.GET("/temperature-generation", rs.ReportTemperatureGeneration)
		reports.GET("/top-inverters", rs.ReportTopInverters)
		reports.GET("/panel-status", rs.ReportPanelStatus)
		reports.GET("/summary", rs.ReportSummary)
	}
}
