package solar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
	_ "heliosdash.xyz/solar-monitor-service/pkg/testing"
)

func TestSeverityRank(t *testing.T) {
	assert.Less(t, severityRank(models.SeverityCritical), severityRank(models.SeverityHigh))
	assert.Less(t, severityRank(models.SeverityHigh), severityRank(models.SeverityMedium))
	assert.Less(t, severityRank(models.SeverityMedium), severityRank(models.SeverityLow))
	assert.Less(t, severityRank(models.SeverityLow), severityRank(models.Severity("unknown")))
}

func TestResolveAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	rule := createTestRule(t, solarObj, models.SeverityLow)

	alert := &models.Alert{
		InverterID: inverter.ID,
		RuleID:     rule.ID,
		Message:    "test alert",
		Severity:   models.SeverityLow,
	}
	require.NoError(t, solarObj.Db.Conn.Create(alert).Error)

	require.NoError(t, solarObj.Alert.ResolveAlert(alert.ID))

	var saved models.Alert
	require.NoError(t, solarObj.Db.Conn.First(&saved, alert.ID).Error)
	assert.True(t, saved.Resolved)
	require.NotNil(t, saved.ResolvedAt)

	resolvedAt := *saved.ResolvedAt

	// resolving again keeps the original resolution timestamp
	require.NoError(t, solarObj.Alert.ResolveAlert(alert.ID))
	require.NoError(t, solarObj.Db.Conn.First(&saved, alert.ID).Error)
	assert.Equal(t, resolvedAt, *saved.ResolvedAt)
}

func TestResolveAlert_NotFound(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	err := solarObj.Alert.ResolveAlert(99999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetInverterAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	other := createTestInverter(t, solarObj, plant.ID, 10.0)

	for _, severity := range []models.Severity{models.SeverityLow, models.SeverityHigh} {
		rule := createTestRule(t, solarObj, severity)
		require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
			InverterID: inverter.ID, RuleID: rule.ID, Severity: severity,
		}).Error)
	}
	rule := createTestRule(t, solarObj, models.SeverityCritical)
	require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
		InverterID: other.ID, RuleID: rule.ID, Severity: models.SeverityCritical,
	}).Error)

	alerts, err := solarObj.Alert.GetInverterAlerts(inverter.ID)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
	for _, alert := range alerts {
		assert.Equal(t, inverter.ID, alert.InverterID)
	}
}

func TestListOpenAlerts_SeverityOrdering(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	clearTables(t, solarObj, "alerts")

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)

	for _, severity := range []models.Severity{
		models.SeverityLow,
		models.SeverityCritical,
		models.SeverityMedium,
		models.SeverityHigh,
	} {
		rule := createTestRule(t, solarObj, severity)
		require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
			InverterID: inverter.ID, RuleID: rule.ID, Severity: severity,
		}).Error)
	}

	// resolved alerts never show up
	resolvedRule := createTestRule(t, solarObj, models.SeverityCritical)
	require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
		InverterID: inverter.ID, RuleID: resolvedRule.ID, Severity: models.SeverityCritical, Resolved: true,
	}).Error)

	alerts, err := solarObj.Alert.ListOpenAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, models.SeverityHigh, alerts[1].Severity)
	assert.Equal(t, models.SeverityMedium, alerts[2].Severity)
	assert.Equal(t, models.SeverityLow, alerts[3].Severity)
}
