package household

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
	"github.com/izawa-yuka/uruoi/pkg/remote"
)

const (
	collectionContainers = "containers"
	collectionRecords    = "records"

	// pushQueueSize bounds the ordered push queue; enqueue blocks when full
	// rather than dropping or reordering.
	pushQueueSize = 256
)

func syncLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHouseholdCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySync),
	)
}

// ISyncImpl keeps live bidirectional sync for at most one household at a
// time: two remote subscriptions (containers, records) whose diffs are
// applied to the local store, and push helpers that mirror local mutations to
// the remote store.
type ISyncImpl struct {
	household *Household

	// mu guards the state machine: idle (session == nil) or syncing.
	mu          sync.Mutex
	householdID string
	session     *syncSession

	// applyMu serializes every application of remote diffs to the local
	// store; both subscription loops funnel through it. It also guards
	// pendingRecords.
	applyMu sync.Mutex

	// pendingRecords holds record changes whose container has not arrived
	// locally yet, keyed by record id; retried after each container batch.
	pendingRecords map[string]remote.DocumentChange

	// pushOnce/pushCh implement the ordered push queue: one worker drains
	// pushes in call order so the remote's last-writer-wins sees the newest
	// local state last.
	pushOnce sync.Once
	pushCh   chan func()
}

type syncSession struct {
	householdID  string
	cancel       context.CancelFunc
	containerSub remote.Subscription
	recordSub    remote.Subscription
	wg           sync.WaitGroup
}

// StartSync transitions to Syncing(householdID). An active session is torn
// down first, including when the household is unchanged: callers re-invoke on
// app foreground to refresh a possibly stale subscription.
func (is *ISyncImpl) StartSync(householdID string) error {
	logger := syncLogger()

	is.StopSync()

	logger.Info("Starting sync", zap.String("household_id", householdID))

	containerSub, err := is.household.Remote.Subscribe(remote.CollectionPath(householdID, collectionContainers))
	if err != nil {
		return err
	}

	recordSub, err := is.household.Remote.Subscribe(remote.CollectionPath(householdID, collectionRecords))
	if err != nil {
		containerSub.Unsubscribe()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &syncSession{
		householdID:  householdID,
		cancel:       cancel,
		containerSub: containerSub,
		recordSub:    recordSub,
	}

	is.applyMu.Lock()
	is.pendingRecords = nil
	is.applyMu.Unlock()

	is.mu.Lock()
	is.householdID = householdID
	is.session = session
	is.mu.Unlock()

	session.wg.Add(2)
	go is.runSubscription(ctx, session, containerSub, is.applyContainerChanges)
	go is.runSubscription(ctx, session, recordSub, is.applyRecordChanges)

	return nil
}

// StopSync transitions to Idle. When it returns both subscriptions are
// released and no further diff will be applied: the session context is
// cancelled before the loops are joined, so an in-flight batch either
// completed before the cancel or is discarded.
func (is *ISyncImpl) StopSync() {
	is.mu.Lock()
	session := is.session
	is.session = nil
	is.householdID = ""
	is.mu.Unlock()

	if session == nil {
		return
	}

	session.cancel()
	session.containerSub.Unsubscribe()
	session.recordSub.Unsubscribe()
	session.wg.Wait()

	syncLogger().Info("Stopped sync", zap.String("household_id", session.householdID))
}

func (is *ISyncImpl) CurrentHousehold() string {
	is.mu.Lock()
	defer is.mu.Unlock()
	return is.householdID
}

func (is *ISyncImpl) runSubscription(ctx context.Context, session *syncSession, sub remote.Subscription, apply func(context.Context, []remote.DocumentChange)) {
	defer session.wg.Done()
	logger := syncLogger()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-sub.Errs():
			// stream errors are reported, they do not tear down the session;
			// reconnecting is the remote adapter's business
			if ok && err != nil {
				logger.Error("Sync subscription error",
					zap.String("household_id", session.householdID), zap.Error(err))
			}
		case batch, ok := <-sub.Changes():
			if !ok {
				return
			}
			apply(ctx, batch)
		}
	}
}

// applyContainerChanges applies one remote change batch to the local store.
// Malformed documents are skipped individually; the whole batch commits as a
// single transaction.
func (is *ISyncImpl) applyContainerChanges(ctx context.Context, changes []remote.DocumentChange) {
	logger := syncLogger()

	is.applyMu.Lock()
	defer is.applyMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	err := is.household.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			switch change.Kind {
			case remote.ChangeAdded, remote.ChangeModified:
				var doc models.ContainerDocument
				if err := json.Unmarshal(change.Data, &doc); err != nil || doc.ID == "" {
					logger.Warn("Skipping malformed container document", zap.String("doc_id", change.ID))
					continue
				}

				// full overwrite, remote is authoritative
				container := doc.ToModel()
				err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					UpdateAll: true,
				}).Create(&container).Error
				if err != nil {
					return err
				}

			case remote.ChangeRemoved:
				// absence is not an error
				if err := tx.Delete(&models.Container{}, "id = ?", change.ID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to apply container changes", zap.Error(err))
		return
	}

	logger.Info("Applied container changes", zap.Int("changes", len(changes)))

	// a container landing may unblock deferred records; the remote does not
	// redeliver unchanged documents, so the retry has to come from us
	if len(is.pendingRecords) > 0 {
		retry := make([]remote.DocumentChange, 0, len(is.pendingRecords))
		for _, change := range is.pendingRecords {
			retry = append(retry, change)
		}
		is.pendingRecords = nil
		is.applyRecordChangesLocked(ctx, retry)
	}
}

// applyRecordChanges is applyContainerChanges for records, with one extra
// rule: a record whose container has not arrived locally yet is deferred.
// The container's own added event travels on a separate subscription, so the
// deferred change is parked in pendingRecords and retried as soon as a
// container batch commits.
func (is *ISyncImpl) applyRecordChanges(ctx context.Context, changes []remote.DocumentChange) {
	is.applyMu.Lock()
	defer is.applyMu.Unlock()

	is.applyRecordChangesLocked(ctx, changes)
}

func (is *ISyncImpl) applyRecordChangesLocked(ctx context.Context, changes []remote.DocumentChange) {
	logger := syncLogger()

	if ctx.Err() != nil {
		return
	}

	var deferred []remote.DocumentChange
	err := is.household.Db.Conn.Transaction(func(tx *gorm.DB) error {
		deferred = deferred[:0]
		for _, change := range changes {
			switch change.Kind {
			case remote.ChangeAdded, remote.ChangeModified:
				var doc models.RecordDocument
				if err := json.Unmarshal(change.Data, &doc); err != nil || doc.ID == "" || doc.ContainerID == "" {
					logger.Warn("Skipping malformed record document", zap.String("doc_id", change.ID))
					continue
				}

				var container models.Container
				err := tx.Select("id").First(&container, "id = ?", doc.ContainerID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					deferred = append(deferred, change)
					continue
				}
				if err != nil {
					return err
				}

				record := doc.ToModel()
				err = tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					UpdateAll: true,
				}).Create(&record).Error
				if err != nil {
					return err
				}

			case remote.ChangeRemoved:
				// a deferred record deleted remotely must not resurrect later
				delete(is.pendingRecords, change.ID)
				if err := tx.Delete(&models.WaterRecord{}, "id = ?", change.ID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to apply record changes", zap.Error(err))
		return
	}

	for _, change := range deferred {
		if is.pendingRecords == nil {
			is.pendingRecords = make(map[string]remote.DocumentChange)
		}
		is.pendingRecords[change.ID] = change
	}

	logger.Info("Applied record changes", zap.Int("changes", len(changes)), zap.Int("deferred", len(deferred)))
}

// enqueuePush hands a push to the single worker goroutine. The queue keeps
// pushes from this device in call order: under last-writer-wins a reordered
// pair would leave the OLDER state winning on the remote permanently. The
// worker is started on first use and lives as long as the service.
func (is *ISyncImpl) enqueuePush(push func()) {
	is.pushOnce.Do(func() {
		is.pushCh = make(chan func(), pushQueueSize)
		go func() {
			for p := range is.pushCh {
				p()
			}
		}()
	})
	is.pushCh <- push
}

// PushContainer mirrors a container upsert to the remote store. Fire and
// forget: a failure is logged and the local mutation stands; the document is
// retried only by a later mutation or a full re-export.
func (is *ISyncImpl) PushContainer(container *models.Container, householdID string) {
	if householdID == "" {
		return
	}
	doc := models.NewContainerDocument(container)
	is.enqueuePush(func() {
		err := is.household.Remote.Put(context.Background(), remote.CollectionPath(householdID, collectionContainers), doc.ID, doc)
		if err != nil {
			syncLogger().Error("Failed to push container to remote",
				zap.String("container_id", doc.ID), zap.Error(err))
		}
	})
}

func (is *ISyncImpl) PushContainerDelete(id string, householdID string) {
	if householdID == "" {
		return
	}
	is.enqueuePush(func() {
		err := is.household.Remote.Delete(context.Background(), remote.CollectionPath(householdID, collectionContainers), id)
		if err != nil {
			syncLogger().Error("Failed to push container delete to remote",
				zap.String("container_id", id), zap.Error(err))
		}
	})
}

func (is *ISyncImpl) PushRecord(record *models.WaterRecord, householdID string) {
	if householdID == "" {
		return
	}
	doc := models.NewRecordDocument(record)
	is.enqueuePush(func() {
		err := is.household.Remote.Put(context.Background(), remote.CollectionPath(householdID, collectionRecords), doc.ID, doc)
		if err != nil {
			syncLogger().Error("Failed to push record to remote",
				zap.String("record_id", doc.ID), zap.Error(err))
		}
	})
}

func (is *ISyncImpl) PushRecordDelete(id string, householdID string) {
	if householdID == "" {
		return
	}
	is.enqueuePush(func() {
		err := is.household.Remote.Delete(context.Background(), remote.CollectionPath(householdID, collectionRecords), id)
		if err != nil {
			syncLogger().Error("Failed to push record delete to remote",
				zap.String("record_id", id), zap.Error(err))
		}
	})
}

func (h *Household) GetISync() ISync {
	return &ISyncImpl{household: h}
}
