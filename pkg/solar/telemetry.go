package solar

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
)

func (s *Solar) ingestTelemetry(inverterID uint, input *TelemetryInput) (*models.TelemetrySample, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSolarCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTelemetry),
	)

	var inverter models.Inverter
	if err := s.Db.Conn.First(&inverter, inverterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inverter %d: %w", inverterID, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()

	measurementDate := input.MeasurementDate
	if measurementDate == "" {
		measurementDate = now.Format(common.DateLayout)
	}
	measurementTime := input.MeasurementTime
	if measurementTime == "" {
		measurementTime = now.Format(common.TimeLayout)
	}

	// Efficiency is snapshotted against the inverter capacity at ingestion
	// time; later capacity edits do not rewrite history.
	var efficiency *float64
	if inverter.CapacityKW > 0 {
		e := (input.GenerationKW / inverter.CapacityKW) * 100
		efficiency = &e
	}

	sample := models.TelemetrySample{
		InverterID:      inverterID,
		MeasurementDate: measurementDate,
		MeasurementTime: measurementTime,
		GenerationKW:    input.GenerationKW,
		Temperature:     input.Temperature,
		Voltage:         input.Voltage,
		Current:         input.Current,
		Frequency:       input.Frequency,
		Efficiency:      efficiency,
		RecordedAt:      now,
	}

	logger.Info("Received telemetry for inverter", zap.Reflect("sample", sample))

	if err := s.Db.Conn.Create(&sample).Error; err != nil {
		return nil, err
	}

	logger.Info("Stored telemetry for inverter", zap.Reflect("sample", sample))

	if s.Rules == nil {
		return nil, fmt.Errorf("rule engine not available")
	}

	// The sample is already committed; a rule engine failure is surfaced in
	// the log but never rolls back or fails the ingestion.
	if err := s.Rules.EvaluateInverter(inverterID); err != nil {
		logger.Warn("Rule evaluation failed after telemetry insert",
			zap.Uint("inverter_id", inverterID), zap.Error(err))
	}

	return &sample, nil
}

func (s *Solar) getInverterTelemetry(inverterID uint, limit int) ([]models.TelemetrySample, error) {
	var samples []models.TelemetrySample
	err := s.Db.Conn.
		Where("inverter_id = ?", inverterID).
		Order("measurement_date desc, measurement_time desc").
		Limit(limit).
		Find(&samples).Error
	return samples, err
}

type ITelemetryImpl struct {
	solar *Solar
}

func (it *ITelemetryImpl) IngestTelemetry(inverterID uint, input *TelemetryInput) (*models.TelemetrySample, error) {
	return it.solar.ingestTelemetry(inverterID, input)
}

func (it *ITelemetryImpl) GetInverterTelemetry(inverterID uint, limit int) ([]models.TelemetrySample, error) {
	return it.solar.getInverterTelemetry(inverterID, limit)
}

func (s *Solar) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{solar: s}
}
