package solar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"heliosdash.xyz/solar-monitor-service/pkg/common"
	"heliosdash.xyz/solar-monitor-service/pkg/models"
)

// severityRank orders alerts for display: critical first, anything
// unrecognized last.
func severityRank(severity models.Severity) int {
	switch severity {
	case models.SeverityCritical:
		return 1
	case models.SeverityHigh:
		return 2
	case models.SeverityMedium:
		return 3
	case models.SeverityLow:
		return 4
	}
	return 5
}

func (s *Solar) getInverterAlerts(inverterID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.Db.Conn.
		Where("inverter_id = ?", inverterID).
		Order("created_at desc").
		Find(&alerts).Error
	return alerts, err
}

func (s *Solar) listOpenAlerts() ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.Db.Conn.
		Where("resolved = ?", false).
		Order("created_at desc").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts, nil
}

func (s *Solar) resolveAlert(alertID uint) error {
	var alert models.Alert
	if err := s.Db.Conn.First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("alert %d: %w", alertID, ErrNotFound)
		}
		return err
	}

	if alert.Resolved {
		return nil
	}

	now := time.Now()
	alert.Resolved = true
	alert.ResolvedAt = &now
	if err := s.Db.Conn.Save(&alert).Error; err != nil {
		return err
	}

	logger := common.GetLoggerWith(
		common.LoggerNameSolarCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)
	logger.Info("Alert resolved", zap.Uint("alert_id", alertID))

	return nil
}

type IAlertImpl struct {
	solar *Solar
}

func (ia *IAlertImpl) GetInverterAlerts(inverterID uint) ([]models.Alert, error) {
	return ia.solar.getInverterAlerts(inverterID)
}

func (ia *IAlertImpl) ListOpenAlerts() ([]models.Alert, error) {
	return ia.solar.listOpenAlerts()
}

func (ia *IAlertImpl) ResolveAlert(alertID uint) error {
	return ia.solar.resolveAlert(alertID)
}

func (s *Solar) GetIAlert() IAlert {
	return &IAlertImpl{solar: s}
}
