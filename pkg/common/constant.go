package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeySolarDBType string = "SOLAR_DB_TYPE"
	EnvKeySolarDbPath string = "SOLAR_DB_PATH"

	EnvKeySolarHttpHostPort string = "SOLAR_HTTP_HOST_PORT"

	EnvKeySolarDefaultRate  string = "SOLAR_DEFAULT_RATE"
	EnvKeySolarDefaultBurst string = "SOLAR_DEFAULT_BURST"

	LoggerNameSolarCore     string = "solar_core"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldCategory       string = "category"
	LoggerCategoryTelemetry   string = "telemetry"
	LoggerCategoryRuleEngine  string = "rule_engine"
	LoggerCategoryAlert       string = "alert"
	LoggerCategoryReport      string = "report"
	LoggerCategoryFleet       string = "fleet"
)
