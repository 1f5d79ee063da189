package solar

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"heliosdash.xyz/solar-monitor-service/pkg/db"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
	"heliosdash.xyz/solar-monitor-service/pkg/solar/mocks"
)

func GetMockSolarWithMemorySqliteDialector(t *testing.T, useMockRules, useMockAlert bool) (
	*gomock.Controller,
	*Solar,
	*mocks.MockIRuleEngine,
	*mocks.MockIAlert,
) {
	ctrl := gomock.NewController(t)

	mockRules := mocks.NewMockIRuleEngine(ctrl)
	mockAlert := mocks.NewMockIAlert(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	solarInstance := (&Solar{Db: *dbInstance})

	rulesService := solarInstance.GetIRuleEngine()
	if useMockRules {
		rulesService = mockRules
	}

	alertService := solarInstance.GetIAlert()
	if useMockAlert {
		alertService = mockAlert
	}

	solarInstance.WithServices(ServiceOpts{
		Telemetry: solarInstance.GetITelemetry(),
		Rules:     rulesService,
		Alert:     alertService,
		Report:    solarInstance.GetIReport(),
		Fleet:     solarInstance.GetIFleet(),
	})

	return ctrl, solarInstance, mockRules, mockAlert
}

// clearTables wipes shared tables so tests that assert on global result sets
// are not polluted by earlier tests against the same in-memory database.
func clearTables(t *testing.T, s *Solar, tables ...string) {
	t.Helper()
	for _, table := range tables {
		require.NoError(t, s.Db.Conn.Exec("DELETE FROM "+table).Error)
	}
}

func createTestPlant(t *testing.T, s *Solar, capacityKW float64) *models.Plant {
	t.Helper()
	plant := &models.Plant{
		Name:            "plant-" + uuid.NewString(),
		Location:        "test site",
		TotalCapacityKW: capacityKW,
		InstallDate:     "2023-06-01",
	}
	require.NoError(t, s.Fleet.CreatePlant(plant))
	return plant
}

func createTestInverter(t *testing.T, s *Solar, plantID uint, capacityKW float64) *models.Inverter {
	t.Helper()
	inverter := &models.Inverter{
		SerialCode:  uuid.NewString(),
		Model:       "TEST-5K",
		CapacityKW:  capacityKW,
		InstallDate: "2023-06-01",
		PlantID:     plantID,
	}
	require.NoError(t, s.Fleet.CreateInverter(inverter))
	return inverter
}

func createTestRule(t *testing.T, s *Solar, severity models.Severity) *models.Rule {
	t.Helper()
	rule := &models.Rule{
		Name:       "rule-" + uuid.NewString(),
		MetricType: models.MetricTypeEfficiency,
		Operator:   "<",
		Threshold:  70,
		Severity:   severity,
		Active:     true,
	}
	require.NoError(t, s.Fleet.CreateRule(rule))
	return rule
}

func addTestSample(t *testing.T, s *Solar, sample *models.TelemetrySample) {
	t.Helper()
	require.NoError(t, s.Db.Conn.Create(sample).Error)
}

func fptr(v float64) *float64 {
	return &v
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
