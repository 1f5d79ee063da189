package solar

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
)

func fleetLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameSolarCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryFleet),
	)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var validOperators = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true,
}

var validMetricTypes = map[models.MetricType]bool{
	models.MetricTypeEfficiency:  true,
	models.MetricTypeTemperature: true,
	models.MetricTypeGeneration:  true,
	models.MetricTypeVoltage:     true,
	models.MetricTypeCurrent:     true,
	models.MetricTypeFrequency:   true,
}

func (s *Solar) createPlant(input *models.Plant) error {
	if input.TotalCapacityKW <= 0 {
		return fmt.Errorf("plant capacity must be positive: %w", ErrValidation)
	}

	if err := s.Db.Conn.Create(input).Error; err != nil {
		return err
	}

	fleetLogger().Info("Plant created", zap.Reflect("plant", input))
	return nil
}

func (s *Solar) listPlants() ([]models.Plant, error) {
	var plants []models.Plant
	err := s.Db.Conn.Order("total_capacity_kw desc").Find(&plants).Error
	return plants, err
}

func (s *Solar) deletePlant(plantID uint) error {
	var plant models.Plant
	if err := s.Db.Conn.First(&plant, plantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("plant %d: %w", plantID, ErrNotFound)
		}
		return err
	}

	var inverterCount int64
	if err := s.Db.Conn.Model(&models.Inverter{}).
		Where("plant_id = ?", plantID).
		Count(&inverterCount).Error; err != nil {
		return err
	}
	if inverterCount > 0 {
		return fmt.Errorf("plant %d: %w", plantID, ErrPlantHasInverters)
	}

	if err := s.Db.Conn.Delete(&plant).Error; err != nil {
		return err
	}

	fleetLogger().Info("Plant deleted", zap.Uint("plant_id", plantID))
	return nil
}

func (s *Solar) createInverter(input *models.Inverter) error {
	if input.CapacityKW <= 0 {
		return fmt.Errorf("inverter capacity must be positive: %w", ErrValidation)
	}

	var plant models.Plant
	if err := s.Db.Conn.First(&plant, input.PlantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("plant %d: %w", input.PlantID, ErrNotFound)
		}
		return err
	}

	if err := s.Db.Conn.Create(input).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serial code %q: %w", input.SerialCode, ErrConflict)
		}
		return err
	}

	fleetLogger().Info("Inverter created", zap.Reflect("inverter", input))
	return nil
}

func (s *Solar) listInverters(plantID uint) ([]models.Inverter, error) {
	query := s.Db.Conn.Order("serial_code")
	if plantID != 0 {
		query = query.Where("plant_id = ?", plantID)
	}

	var inverters []models.Inverter
	err := query.Find(&inverters).Error
	return inverters, err
}

func (s *Solar) deleteInverter(inverterID uint) error {
	var inverter models.Inverter
	if err := s.Db.Conn.First(&inverter, inverterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("inverter %d: %w", inverterID, ErrNotFound)
		}
		return err
	}

	var sampleCount int64
	if err := s.Db.Conn.Model(&models.TelemetrySample{}).
		Where("inverter_id = ?", inverterID).
		Count(&sampleCount).Error; err != nil {
		return err
	}
	if sampleCount > 0 {
		return fmt.Errorf("inverter %d: %w", inverterID, ErrInverterHasTelemetry)
	}

	// alerts reference the inverter too, so they pin it the same way samples do
	var alertCount int64
	if err := s.Db.Conn.Model(&models.Alert{}).
		Where("inverter_id = ?", inverterID).
		Count(&alertCount).Error; err != nil {
		return err
	}
	if alertCount > 0 {
		return fmt.Errorf("inverter %d: %w", inverterID, ErrInverterHasAlerts)
	}

	if err := s.Db.Conn.Delete(&inverter).Error; err != nil {
		return err
	}

	fleetLogger().Info("Inverter deleted", zap.Uint("inverter_id", inverterID))
	return nil
}

func (s *Solar) createPanel(input *models.SolarPanel) error {
	var inverter models.Inverter
	if err := s.Db.Conn.First(&inverter, input.InverterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("inverter %d: %w", input.InverterID, ErrNotFound)
		}
		return err
	}

	if err := s.Db.Conn.Create(input).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serial code %q: %w", input.SerialCode, ErrConflict)
		}
		return err
	}

	fleetLogger().Info("Panel created", zap.Reflect("panel", input))
	return nil
}

func validateRule(input *models.Rule) error {
	if input.Threshold < 0 {
		return fmt.Errorf("rule threshold must not be negative: %w", ErrValidation)
	}
	if !validOperators[input.Operator] {
		return fmt.Errorf("rule operator %q: %w", input.Operator, ErrValidation)
	}
	if !validMetricTypes[input.MetricType] {
		return fmt.Errorf("rule metric type %q: %w", input.MetricType, ErrValidation)
	}
	return nil
}

func (s *Solar) createRule(input *models.Rule) error {
	if err := validateRule(input); err != nil {
		return err
	}

	if err := s.Db.Conn.Create(input).Error; err != nil {
		return err
	}

	fleetLogger().Info("Rule created", zap.Reflect("rule", input))
	return nil
}

func (s *Solar) updateRule(ruleID uint, input *models.Rule) error {
	if err := validateRule(input); err != nil {
		return err
	}

	var rule models.Rule
	if err := s.Db.Conn.First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("rule %d: %w", ruleID, ErrNotFound)
		}
		return err
	}

	rule.Name = input.Name
	rule.Description = input.Description
	rule.MetricType = input.MetricType
	rule.Operator = input.Operator
	rule.Threshold = input.Threshold
	rule.Severity = input.Severity
	rule.Active = input.Active

	if err := s.Db.Conn.Save(&rule).Error; err != nil {
		return err
	}

	fleetLogger().Info("Rule updated", zap.Reflect("rule", rule))
	return nil
}

// setRuleActive toggles a rule without touching its alerts: deactivating a
// rule neither resolves nor deletes what it already raised.
func (s *Solar) setRuleActive(ruleID uint, active bool) error {
	var rule models.Rule
	if err := s.Db.Conn.First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("rule %d: %w", ruleID, ErrNotFound)
		}
		return err
	}

	if err := s.Db.Conn.Model(&rule).Update("active", active).Error; err != nil {
		return err
	}

	fleetLogger().Info("Rule active flag set",
		zap.Uint("rule_id", ruleID), zap.Bool("active", active))
	return nil
}

func (s *Solar) listRules() ([]models.Rule, error) {
	var rules []models.Rule
	err := s.Db.Conn.Order("created_at desc").Find(&rules).Error
	return rules, err
}

func (s *Solar) deleteRule(ruleID uint) error {
	var rule models.Rule
	if err := s.Db.Conn.First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("rule %d: %w", ruleID, ErrNotFound)
		}
		return err
	}

	var alertCount int64
	if err := s.Db.Conn.Model(&models.Alert{}).
		Where("rule_id = ?", ruleID).
		Count(&alertCount).Error; err != nil {
		return err
	}
	if alertCount > 0 {
		return fmt.Errorf("rule %d: %w", ruleID, ErrRuleHasAlerts)
	}

	if err := s.Db.Conn.Delete(&rule).Error; err != nil {
		return err
	}

	fleetLogger().Info("Rule deleted", zap.Uint("rule_id", ruleID))
	return nil
}

type IFleetImpl struct {
	solar *Solar
}

func (f *IFleetImpl) CreatePlant(input *models.Plant) error  { return f.solar.createPlant(input) }
func (f *IFleetImpl) ListPlants() ([]models.Plant, error)    { return f.solar.listPlants() }
func (f *IFleetImpl) DeletePlant(plantID uint) error         { return f.solar.deletePlant(plantID) }

func (f *IFleetImpl) CreateInverter(input *models.Inverter) error { return f.solar.createInverter(input) }

func (f *IFleetImpl) ListInverters(plantID uint) ([]models.Inverter, error) {
	return f.solar.listInverters(plantID)
}

func (f *IFleetImpl) DeleteInverter(inverterID uint) error { return f.solar.deleteInverter(inverterID) }

func (f *IFleetImpl) CreatePanel(input *models.SolarPanel) error { return f.solar.createPanel(input) }

func (f *IFleetImpl) CreateRule(input *models.Rule) error { return f.solar.createRule(input) }

func (f *IFleetImpl) UpdateRule(ruleID uint, input *models.Rule) error {
	return f.solar.updateRule(ruleID, input)
}

func (f *IFleetImpl) SetRuleActive(ruleID uint, active bool) error {
	return f.solar.setRuleActive(ruleID, active)
}

func (f *IFleetImpl) ListRules() ([]models.Rule, error) { return f.solar.listRules() }
func (f *IFleetImpl) DeleteRule(ruleID uint) error      { return f.solar.deleteRule(ruleID) }

func (s *Solar) GetIFleet() IFleet {
	return &IFleetImpl{solar: s}
}
