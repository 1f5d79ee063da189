package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/db"
	solarHttp "heliosdash.xyz/solar-monitor-service/pkg/http"
	"heliosdash.xyz/solar-monitor-service/pkg/solar"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	solarDbType := os.Getenv(common.EnvKeySolarDBType)
	switch solarDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown SOLAR_DB_TYPE: " + solarDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeySolarHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeySolarDefaultRate), 64); err != nil {
		log.Fatal("Invalid SOLAR_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeySolarDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid SOLAR_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	solarCore := solar.Solar{
		Db: *dbInstance,
	}
	solarCore.WithServices(solar.ServiceOpts{
		Telemetry: solarCore.GetITelemetry(),
		Rules:     solarCore.GetIRuleEngine(),
		Alert:     solarCore.GetIAlert(),
		Report:    solarCore.GetIReport(),
		Fleet:     solarCore.GetIFleet(),
	})

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &solarHttp.RestfulServer{
		Server:           gin.Default(),
		Solar:            &solarCore,
		RateLimiterStore: solar.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.Float64("default_rate", defaultRate),
		zap.Int64("default_burst", defaultBurst))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
