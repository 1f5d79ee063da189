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

// metricValue selects the sample field a rule compares against. A nil return
// means the sample did not record that metric and the rule is skipped.
func metricValue(sample *models.TelemetrySample, metric models.MetricType) *float64 {
	switch metric {
	case models.MetricTypeEfficiency:
		return sample.Efficiency
	case models.MetricTypeTemperature:
		return sample.Temperature
	case models.MetricTypeGeneration:
		return &sample.GenerationKW
	case models.MetricTypeVoltage:
		return sample.Voltage
	case models.MetricTypeCurrent:
		return sample.Current
	case models.MetricTypeFrequency:
		return sample.Frequency
	}
	return nil
}

// conditionHolds evaluates value OP threshold. An unrecognized operator is
// never satisfied.
func conditionHolds(value float64, operator string, threshold float64) bool {
	switch operator {
	case "<":
		return value < threshold
	case ">":
		return value > threshold
	case "<=":
		return value <= threshold
	case ">=":
		return value >= threshold
	case "==":
		return value == threshold
	}
	return false
}

// evaluateInverter runs every active rule against the inverter's most recent
// sample. Missing inverter and missing telemetry are both quiet no-ops so the
// engine can be fired blindly after every ingestion.
func (s *Solar) evaluateInverter(inverterID uint) error {
	var inverter models.Inverter
	if err := s.Db.Conn.First(&inverter, inverterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	// Most recent is defined by the measured date and time, not insertion
	// order, so backfilled history is picked up correctly.
	var latest models.TelemetrySample
	err := s.Db.Conn.
		Where("inverter_id = ?", inverterID).
		Order("measurement_date desc, measurement_time desc").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var rules []models.Rule
	if err := s.Db.Conn.Where("active = ?", true).Find(&rules).Error; err != nil {
		return err
	}

	for i := range rules {
		rule := &rules[i]

		value := metricValue(&latest, rule.MetricType)
		if value == nil {
			continue
		}

		if !conditionHolds(*value, rule.Operator, rule.Threshold) {
			continue
		}

		if err := s.openAlert(inverterID, rule, *value); err != nil {
			return err
		}
	}

	return nil
}

// openAlert inserts an alert for a satisfied rule unless an unresolved one for
// the same (inverter, rule) pair already exists. The check and insert run in
// one transaction, and a unique-index violation from a concurrent evaluation
// is folded into the duplicate case.
func (s *Solar) openAlert(inverterID uint, rule *models.Rule, value float64) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSolarCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRuleEngine),
	)

	return s.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var existing models.Alert
		err := tx.
			Where("inverter_id = ? AND rule_id = ? AND resolved = ?", inverterID, rule.ID, false).
			First(&existing).Error
		if err == nil {
			// already open for this pair, suppress
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		alert := models.Alert{
			InverterID: inverterID,
			RuleID:     rule.ID,
			Severity:   rule.Severity,
			Message: fmt.Sprintf("%s: %s (%.2f) %s %g",
				rule.Name, rule.MetricType, value, rule.Operator, rule.Threshold),
		}

		logger.Info("Alert raised", zap.Reflect("alert", alert))

		if err := tx.Create(&alert).Error; err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return nil
			}
			return err
		}

		logger.Info("Alert saved", zap.Reflect("alert", alert))
		return nil
	})
}

// evaluateAllInverters sweeps the whole fleet. A failure on one inverter is
// logged and collected without stopping the others.
func (s *Solar) evaluateAllInverters() error {
	var inverters []models.Inverter
	if err := s.Db.Conn.Find(&inverters).Error; err != nil {
		return err
	}

	logger := common.GetLoggerWith(
		common.LoggerNameSolarCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRuleEngine),
	)

	errs := common.Mapper(inverters, func(inverter models.Inverter) error {
		err := s.Rules.EvaluateInverter(inverter.ID)
		if err != nil {
			logger.Error("Evaluation failed for inverter",
				zap.Uint("inverter_id", inverter.ID), zap.Error(err))
			return fmt.Errorf("inverter %d: %w", inverter.ID, err)
		}
		return nil
	})

	// Join drops the nils, so a clean sweep still returns nil.
	return errors.Join(errs...)
}

type IRuleEngineImpl struct {
	solar *Solar
}

func (ir *IRuleEngineImpl) EvaluateInverter(inverterID uint) error {
	return ir.solar.evaluateInverter(inverterID)
}

func (ir *IRuleEngineImpl) EvaluateAllInverters() error {
	return ir.solar.evaluateAllInverters()
}

func (s *Solar) GetIRuleEngine() IRuleEngine {
	return &IRuleEngineImpl{solar: s}
}
