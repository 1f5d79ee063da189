package solar

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
	_ "heliosdash.xyz/solar-monitor-service/pkg/testing"
)

func TestCreatePlant_Validation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	err := solarObj.Fleet.CreatePlant(&models.Plant{Name: "bad", TotalCapacityKW: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	err = solarObj.Fleet.CreatePlant(&models.Plant{Name: "worse", TotalCapacityKW: -5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestListPlants_OrderedByCapacity(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	clearFleet(t, solarObj)

	small := createTestPlant(t, solarObj, 50.0)
	large := createTestPlant(t, solarObj, 500.0)

	plants, err := solarObj.Fleet.ListPlants()
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, large.ID, plants[0].ID)
	assert.Equal(t, small.ID, plants[1].ID)
}

func TestDeletePlant_GuardedByInverters(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)

	err := solarObj.Fleet.DeletePlant(plant.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlantHasInverters))

	// still there
	var count int64
	require.NoError(t, solarObj.Db.Conn.Model(&models.Plant{}).
		Where("id = ?", plant.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, solarObj.Fleet.DeleteInverter(inverter.ID))
	require.NoError(t, solarObj.Fleet.DeletePlant(plant.ID))
}

func TestDeletePlant_NotFound(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	err := solarObj.Fleet.DeletePlant(99999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateInverter(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)

	err := solarObj.Fleet.CreateInverter(&models.Inverter{
		SerialCode: uuid.NewString(), CapacityKW: 0, PlantID: plant.ID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	err = solarObj.Fleet.CreateInverter(&models.Inverter{
		SerialCode: uuid.NewString(), CapacityKW: 5.0, PlantID: 99999999,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateInverter_DuplicateSerial(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	serial := uuid.NewString()

	require.NoError(t, solarObj.Fleet.CreateInverter(&models.Inverter{
		SerialCode: serial, CapacityKW: 5.0, PlantID: plant.ID,
	}))

	err := solarObj.Fleet.CreateInverter(&models.Inverter{
		SerialCode: serial, CapacityKW: 5.0, PlantID: plant.ID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestListInverters_FilterByPlant(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	clearFleet(t, solarObj)

	first := createTestPlant(t, solarObj, 100.0)
	second := createTestPlant(t, solarObj, 100.0)
	createTestInverter(t, solarObj, first.ID, 10.0)
	createTestInverter(t, solarObj, first.ID, 10.0)
	createTestInverter(t, solarObj, second.ID, 10.0)

	all, err := solarObj.Fleet.ListInverters(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := solarObj.Fleet.ListInverters(first.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, inverter := range filtered {
		assert.Equal(t, first.ID, inverter.PlantID)
	}
}

func TestDeleteInverter_GuardedByTelemetry(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	addTestSample(t, solarObj, &models.TelemetrySample{
		InverterID: inverter.ID, MeasurementDate: common.Today(), MeasurementTime: "10:00:00",
		GenerationKW: 5.0,
	})

	err := solarObj.Fleet.DeleteInverter(inverter.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInverterHasTelemetry))

	var count int64
	require.NoError(t, solarObj.Db.Conn.Model(&models.Inverter{}).
		Where("id = ?", inverter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteInverter_GuardedByAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	rule := createTestRule(t, solarObj, models.SeverityHigh)

	// no samples, only an alert; the delete must still be refused so the
	// alert never points at a dead inverter id
	require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
		InverterID: inverter.ID, RuleID: rule.ID, Severity: rule.Severity,
	}).Error)

	err := solarObj.Fleet.DeleteInverter(inverter.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInverterHasAlerts))

	var count int64
	require.NoError(t, solarObj.Db.Conn.Model(&models.Inverter{}).
		Where("id = ?", inverter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePanel(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)

	require.NoError(t, solarObj.Fleet.CreatePanel(&models.SolarPanel{
		SerialCode: uuid.NewString(), Model: "P-450", PowerWP: 450, InverterID: inverter.ID,
	}))

	err := solarObj.Fleet.CreatePanel(&models.SolarPanel{
		SerialCode: uuid.NewString(), Model: "P-450", PowerWP: 450, InverterID: 99999999,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateRule_Validation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	cases := []struct {
		name string
		rule models.Rule
	}{
		{"negative threshold", models.Rule{Name: "r", MetricType: models.MetricTypeEfficiency, Operator: "<", Threshold: -1}},
		{"bad operator", models.Rule{Name: "r", MetricType: models.MetricTypeEfficiency, Operator: "!=", Threshold: 10}},
		{"bad metric", models.Rule{Name: "r", MetricType: models.MetricType("humidity"), Operator: "<", Threshold: 10}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := solarObj.Fleet.CreateRule(&c.rule)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestUpdateRule(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	rule := createTestRule(t, solarObj, models.SeverityMedium)

	require.NoError(t, solarObj.Fleet.UpdateRule(rule.ID, &models.Rule{
		Name:       "Overheating",
		MetricType: models.MetricTypeTemperature,
		Operator:   ">",
		Threshold:  85,
		Severity:   models.SeverityCritical,
		Active:     true,
	}))

	var saved models.Rule
	require.NoError(t, solarObj.Db.Conn.First(&saved, rule.ID).Error)
	assert.Equal(t, "Overheating", saved.Name)
	assert.Equal(t, models.MetricTypeTemperature, saved.MetricType)
	assert.Equal(t, ">", saved.Operator)
	assert.Equal(t, 85.0, saved.Threshold)
	assert.Equal(t, models.SeverityCritical, saved.Severity)

	err := solarObj.Fleet.UpdateRule(99999999, &models.Rule{
		Name: "r", MetricType: models.MetricTypeEfficiency, Operator: "<", Threshold: 10,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSetRuleActive_LeavesAlertsAlone(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	rule := createTestRule(t, solarObj, models.SeverityHigh)

	require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
		InverterID: inverter.ID, RuleID: rule.ID, Severity: rule.Severity,
	}).Error)

	require.NoError(t, solarObj.Fleet.SetRuleActive(rule.ID, false))

	var saved models.Rule
	require.NoError(t, solarObj.Db.Conn.First(&saved, rule.ID).Error)
	assert.False(t, saved.Active)

	var alert models.Alert
	require.NoError(t, solarObj.Db.Conn.
		Where("rule_id = ?", rule.ID).First(&alert).Error)
	assert.False(t, alert.Resolved)
}

func TestDeleteRule_GuardedByAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	plant := createTestPlant(t, solarObj, 100.0)
	inverter := createTestInverter(t, solarObj, plant.ID, 10.0)
	rule := createTestRule(t, solarObj, models.SeverityHigh)

	require.NoError(t, solarObj.Db.Conn.Create(&models.Alert{
		InverterID: inverter.ID, RuleID: rule.ID, Severity: rule.Severity,
	}).Error)

	err := solarObj.Fleet.DeleteRule(rule.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleHasAlerts))

	// even a resolved alert keeps the rule pinned
	var alert models.Alert
	require.NoError(t, solarObj.Db.Conn.Where("rule_id = ?", rule.ID).First(&alert).Error)
	require.NoError(t, solarObj.Alert.ResolveAlert(alert.ID))

	err = solarObj.Fleet.DeleteRule(rule.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleHasAlerts))
}

func TestDeleteRule(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, solarObj, _, _ := GetMockSolarWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	rule := createTestRule(t, solarObj, models.SeverityLow)
	require.NoError(t, solarObj.Fleet.DeleteRule(rule.ID))

	err := solarObj.Fleet.DeleteRule(rule.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
