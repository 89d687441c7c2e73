package household

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
)

// ErrNoActiveRecord is returned when a finish operation finds no unfinished
// record for the container.
var ErrNoActiveRecord = errors.New("no active record for container")

func recordLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHouseholdCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRecord),
	)
}

type StartRecordingInput struct {
	ContainerID string
	StartWeight float64
	CatCount    int
	Note        *string
	At          time.Time
}

type FinishRecordingInput struct {
	ContainerID      string
	EndWeight        float64
	WeatherCondition *string
	Temperature      *float64
	CatCount         int
	Note             *string
	At               time.Time
}

type UpdateRecordInput struct {
	ID          string
	StartTime   time.Time
	EndTime     *time.Time
	StartWeight float64
	EndWeight   *float64
	Note        *string
}

// remainingNote composes the note stored on a finished record: the measured
// remaining amount, with the user's note appended when present. A prior
// composed prefix is stripped first so an edited record does not stack them.
func remainingNote(endWeight float64, userNote *string) *string {
	note := fmt.Sprintf("残量: %dg", int(endWeight))
	if userNote != nil {
		if rest := models.TrimRemainingAmount(*userNote); rest != "" {
			note += "\n" + rest
		}
	}
	return &note
}

// startRecording creates a new active record. Any prior active record of the
// container is force-closed first with endWeight = startWeight (zero
// consumption); one active record per container is a convention, not a store
// constraint, since two devices can start before sync converges.
func (h *Household) startRecording(input StartRecordingInput) (*models.WaterRecord, error) {
	logger := recordLogger()

	if err := h.forceCloseActiveRecord(input.ContainerID, input.At); err != nil {
		return nil, err
	}

	var deviceID *string
	if h.Device != nil {
		id := h.Device.CurrentDeviceID()
		deviceID = &id
	}

	record := &models.WaterRecord{
		ID:                uuid.NewString(),
		ContainerID:       input.ContainerID,
		StartTime:         input.At,
		StartWeight:       input.StartWeight,
		CatCount:          input.CatCount,
		Note:              input.Note,
		CreatedByDeviceID: deviceID,
	}

	if !record.IsValid() {
		return nil, fmt.Errorf("invalid record: %s", strings.Join(record.ValidationErrors(), "; "))
	}

	if err := h.Db.Conn.Create(record).Error; err != nil {
		return nil, err
	}

	logger.Info("Started recording", zap.Reflect("record", record))

	h.syncRecord(record)
	return record, nil
}

// forceCloseActiveRecord closes the most recent unfinished record of the
// container, if any. The close is written directly: an endWeight equal to the
// startWeight would not pass the end-weight validation users get.
func (h *Household) forceCloseActiveRecord(containerID string, at time.Time) error {
	logger := recordLogger()

	var active models.WaterRecord
	err := h.Db.Conn.
		Where("container_id = ? AND end_time IS NULL", containerID).
		Order("start_time desc").
		First(&active).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	endWeight := active.StartWeight
	active.EndTime = &at
	active.EndWeight = &endWeight

	if err := h.Db.Conn.Save(&active).Error; err != nil {
		return err
	}

	logger.Info("Force closed active record", zap.String("record_id", active.ID))

	h.syncRecord(&active)
	return nil
}

func (h *Household) finishRecording(input FinishRecordingInput) (*models.WaterRecord, error) {
	logger := recordLogger()

	var record models.WaterRecord
	err := h.Db.Conn.
		Where("container_id = ? AND end_time IS NULL", input.ContainerID).
		Order("start_time desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRecord
		}
		return nil, err
	}

	at := input.At
	endWeight := input.EndWeight
	record.EndTime = &at
	record.EndWeight = &endWeight
	record.CatCount = input.CatCount
	record.WeatherCondition = input.WeatherCondition
	record.Temperature = input.Temperature
	record.Note = input.Note

	if !record.IsValid() {
		return nil, fmt.Errorf("invalid record: %s", strings.Join(record.ValidationErrors(), "; "))
	}

	record.Note = remainingNote(input.EndWeight, input.Note)

	if err := h.Db.Conn.Save(&record).Error; err != nil {
		return nil, err
	}

	logger.Info("Finished recording", zap.Reflect("record", record))

	h.syncRecord(&record)
	return &record, nil
}

func (h *Household) finishAndRestartRecording(input FinishRecordingInput, nextStartWeight float64) (*models.WaterRecord, error) {
	if _, err := h.finishRecording(input); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("残量: %dg", int(input.EndWeight))
	return h.startRecording(StartRecordingInput{
		ContainerID: input.ContainerID,
		StartWeight: nextStartWeight,
		CatCount:    input.CatCount,
		Note:        &note,
		At:          input.At,
	})
}

func (h *Household) updateStartRecord(id string, startTime time.Time, startWeight float64, note *string) (*models.WaterRecord, error) {
	logger := recordLogger()

	var record models.WaterRecord
	if err := h.Db.Conn.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}

	record.StartTime = startTime
	record.StartWeight = startWeight
	record.Note = note

	if !record.IsValid() {
		return nil, fmt.Errorf("invalid record: %s", strings.Join(record.ValidationErrors(), "; "))
	}

	if err := h.Db.Conn.Save(&record).Error; err != nil {
		return nil, err
	}

	logger.Info("Updated start record", zap.Reflect("record", record))

	h.syncRecord(&record)
	return &record, nil
}

func (h *Household) updateRecord(input UpdateRecordInput) (*models.WaterRecord, error) {
	logger := recordLogger()

	var record models.WaterRecord
	if err := h.Db.Conn.First(&record, "id = ?", input.ID).Error; err != nil {
		return nil, err
	}

	record.StartTime = input.StartTime
	record.EndTime = input.EndTime
	record.StartWeight = input.StartWeight
	record.EndWeight = input.EndWeight
	record.Note = input.Note

	if !record.IsValid() {
		return nil, fmt.Errorf("invalid record: %s", strings.Join(record.ValidationErrors(), "; "))
	}

	if input.EndWeight != nil {
		record.Note = remainingNote(*input.EndWeight, input.Note)
	}

	if err := h.Db.Conn.Save(&record).Error; err != nil {
		return nil, err
	}

	logger.Info("Updated record", zap.Reflect("record", record))

	h.syncRecord(&record)
	return &record, nil
}

func (h *Household) deleteRecord(id string) error {
	logger := recordLogger()

	var record models.WaterRecord
	if err := h.Db.Conn.First(&record, "id = ?", id).Error; err != nil {
		return err
	}

	if err := h.Db.Conn.Delete(&record).Error; err != nil {
		return err
	}

	logger.Info("Deleted record", zap.String("record_id", id))

	h.syncRecordDelete(id)
	return nil
}

func (h *Household) activeRecords() ([]models.WaterRecord, error) {
	var records []models.WaterRecord
	err := h.Db.Conn.
		Where("end_time IS NULL").
		Order("start_time desc").
		Find(&records).Error
	return records, err
}

type IRecordImpl struct {
	household *Household
}

func (ir *IRecordImpl) StartRecording(input StartRecordingInput) (*models.WaterRecord, error) {
	return ir.household.startRecording(input)
}

func (ir *IRecordImpl) FinishRecording(input FinishRecordingInput) (*models.WaterRecord, error) {
	return ir.household.finishRecording(input)
}

func (ir *IRecordImpl) FinishAndRestartRecording(input FinishRecordingInput, nextStartWeight float64) (*models.WaterRecord, error) {
	return ir.household.finishAndRestartRecording(input, nextStartWeight)
}

func (ir *IRecordImpl) UpdateStartRecord(id string, startTime time.Time, startWeight float64, note *string) (*models.WaterRecord, error) {
	return ir.household.updateStartRecord(id, startTime, startWeight, note)
}

func (ir *IRecordImpl) UpdateRecord(input UpdateRecordInput) (*models.WaterRecord, error) {
	return ir.household.updateRecord(input)
}

func (ir *IRecordImpl) DeleteRecord(id string) error {
	return ir.household.deleteRecord(id)
}

func (ir *IRecordImpl) ActiveRecords() ([]models.WaterRecord, error) {
	return ir.household.activeRecords()
}

func (ir *IRecordImpl) WeeklyAveragePerCat(now time.Time, catCount int) (float64, error) {
	return ir.household.weeklyAveragePerCat(now, catCount)
}

func (ir *IRecordImpl) TodayTotalPerCat(now time.Time, catCount int) (float64, error) {
	return ir.household.todayTotalPerCat(now, catCount)
}

func (h *Household) GetIRecord() IRecord {
	return &IRecordImpl{household: h}
}
