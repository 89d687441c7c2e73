package household

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
)

const settingKeyHouseholdID = "householdID"

func settingsLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHouseholdCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySettings),
	)
}

// ISettingsImpl persists the configured household id so sync resumes after a
// process restart.
type ISettingsImpl struct {
	household *Household
}

func (s *ISettingsImpl) HouseholdID() (string, error) {
	var setting models.Setting
	err := s.household.Db.Conn.First(&setting, "key = ?", settingKeyHouseholdID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *ISettingsImpl) SetHouseholdID(id string) error {
	setting := models.Setting{Key: settingKeyHouseholdID, Value: id}
	err := s.household.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&setting).Error
	if err == nil {
		settingsLogger().Info("Saved household id", zap.String("household_id", id))
	}
	return err
}

func (s *ISettingsImpl) ClearHouseholdID() error {
	err := s.household.Db.Conn.Delete(&models.Setting{}, "key = ?", settingKeyHouseholdID).Error
	if err == nil {
		settingsLogger().Info("Cleared household id")
	}
	return err
}

func (h *Household) GetISettings() ISettings {
	return &ISettingsImpl{household: h}
}
