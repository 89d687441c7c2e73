package household

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
	"github.com/izawa-yuka/uruoi/pkg/remote"
)

var (
	// ErrRemoteSync marks a failed remote read or write during migration;
	// retry is a user initiated re-invocation.
	ErrRemoteSync = errors.New("remote sync failed")
	// ErrLocalWipe marks a failed local wipe; state may be partially deleted.
	ErrLocalWipe = errors.New("local delete failed")
)

func migrationLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHouseholdCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMigration),
	)
}

// exportAllToRemote snapshots every local container and record, archived ones
// included, and uploads them as one atomic batch under the household
// namespace. An empty store is a successful no-op.
//
// The batch is not chunked. Cloud document stores cap batches around 500
// documents; a single household is assumed to stay below that, and a larger
// dataset fails the whole batch rather than half-migrating.
func (h *Household) exportAllToRemote(ctx context.Context, householdID string) error {
	logger := migrationLogger()

	var containers []models.Container
	if err := h.Db.Conn.Find(&containers).Error; err != nil {
		return err
	}

	var records []models.WaterRecord
	if err := h.Db.Conn.Find(&records).Error; err != nil {
		return err
	}

	if len(containers) == 0 && len(records) == 0 {
		logger.Info("Nothing to export, local store is empty")
		return nil
	}

	containerPath := remote.CollectionPath(householdID, collectionContainers)
	recordPath := remote.CollectionPath(householdID, collectionRecords)

	writes := common.Mapper(containers, func(c models.Container) remote.Write {
		doc := models.NewContainerDocument(&c)
		return remote.Write{Collection: containerPath, ID: doc.ID, Doc: doc}
	})
	writes = append(writes, common.Mapper(records, func(r models.WaterRecord) remote.Write {
		doc := models.NewRecordDocument(&r)
		return remote.Write{Collection: recordPath, ID: doc.ID, Doc: doc}
	})...)

	if err := h.Remote.Commit(ctx, writes); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteSync, err)
	}

	logger.Info("Export to remote completed",
		zap.String("household_id", householdID),
		zap.Int("containers", len(containers)),
		zap.Int("records", len(records)))

	return nil
}

// wipeLocal deletes every record, then every container, then settings are
// left alone. Records go first so rows whose container is already gone are
// cleaned up too, independent of the cascade. There is no rollback: a failure
// surfaces with whatever was already deleted staying deleted.
func (h *Household) wipeLocal() error {
	logger := migrationLogger()

	err := h.Db.Conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.WaterRecord{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLocalWipe, err)
	}

	err = h.Db.Conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Container{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLocalWipe, err)
	}

	logger.Info("Wiped local store")
	return nil
}

// latestRemoteRecordTimestamp returns the most recent record start time under
// the household, or nil when the household has no records. Used for the
// "your cloud data was last updated at T, overwrite local?" confirmation
// before a restore.
func (h *Household) latestRemoteRecordTimestamp(ctx context.Context, householdID string) (*time.Time, error) {
	docs, err := h.Remote.QueryLatest(ctx, remote.CollectionPath(householdID, collectionRecords), "startTime", 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteSync, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var doc models.RecordDocument
	if err := json.Unmarshal(docs[0].Data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteSync, err)
	}
	return &doc.StartTime, nil
}

type IMigrationImpl struct {
	household *Household
}

func (im *IMigrationImpl) ExportAllToRemote(ctx context.Context, householdID string) error {
	return im.household.exportAllToRemote(ctx, householdID)
}

func (im *IMigrationImpl) WipeLocal() error {
	return im.household.wipeLocal()
}

func (im *IMigrationImpl) LatestRemoteRecordTimestamp(ctx context.Context, householdID string) (*time.Time, error) {
	return im.household.latestRemoteRecordTimestamp(ctx, householdID)
}

func (h *Household) GetIMigration() IMigration {
	return &IMigrationImpl{household: h}
}
