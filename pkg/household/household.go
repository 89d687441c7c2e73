// Package household is the core of the app: container and record CRUD over
// the local store, intake statistics, and the household-scoped sync and
// migration services against the remote document store.
package household

import (
	"context"
	"time"

	"github.com/izawa-yuka/uruoi/pkg/db"
	"github.com/izawa-yuka/uruoi/pkg/device"
	"github.com/izawa-yuka/uruoi/pkg/models"
	"github.com/izawa-yuka/uruoi/pkg/remote"
)

type IContainer interface {
	AddContainer(name string, emptyWeight float64) (*models.Container, error)
	UpdateContainer(id string, name string, emptyWeight float64) (*models.Container, error)
	ReorderContainers(orderedIDs []string) error
	ArchiveContainer(id string) error
	DeleteContainer(id string) error
	ListActiveContainers() ([]models.Container, error)
}

type IRecord interface {
	StartRecording(input StartRecordingInput) (*models.WaterRecord, error)
	FinishRecording(input FinishRecordingInput) (*models.WaterRecord, error)
	FinishAndRestartRecording(input FinishRecordingInput, nextStartWeight float64) (*models.WaterRecord, error)
	UpdateStartRecord(id string, startTime time.Time, startWeight float64, note *string) (*models.WaterRecord, error)
	UpdateRecord(input UpdateRecordInput) (*models.WaterRecord, error)
	DeleteRecord(id string) error
	ActiveRecords() ([]models.WaterRecord, error)
	WeeklyAveragePerCat(now time.Time, catCount int) (float64, error)
	TodayTotalPerCat(now time.Time, catCount int) (float64, error)
}

type ISync interface {
	StartSync(householdID string) error
	StopSync()
	CurrentHousehold() string
	PushContainer(container *models.Container, householdID string)
	PushContainerDelete(id string, householdID string)
	PushRecord(record *models.WaterRecord, householdID string)
	PushRecordDelete(id string, householdID string)
}

type IMigration interface {
	ExportAllToRemote(ctx context.Context, householdID string) error
	WipeLocal() error
	LatestRemoteRecordTimestamp(ctx context.Context, householdID string) (*time.Time, error)
}

type ISettings interface {
	HouseholdID() (string, error)
	SetHouseholdID(id string) error
	ClearHouseholdID() error
}

type Household struct {
	Db     db.DB
	Remote remote.Store
	Device device.Provider

	Container IContainer
	Record    IRecord
	Sync      ISync
	Migration IMigration
	Settings  ISettings
}

type ServiceOpts struct {
	Container IContainer
	Record    IRecord
	Sync      ISync
	Migration IMigration
	Settings  ISettings
}

func (h *Household) WithServices(opts ServiceOpts) *Household {
	if opts.Container != nil {
		h.Container = opts.Container
	}
	if opts.Record != nil {
		h.Record = opts.Record
	}
	if opts.Sync != nil {
		h.Sync = opts.Sync
	}
	if opts.Migration != nil {
		h.Migration = opts.Migration
	}
	if opts.Settings != nil {
		h.Settings = opts.Settings
	}
	return h
}

// syncContainer mirrors a local container mutation to the remote store when a
// household is configured. Sync is opt-in: without a household this is a no-op.
func (h *Household) syncContainer(container *models.Container) {
	if h.Sync == nil {
		return
	}
	if householdID := h.Sync.CurrentHousehold(); householdID != "" {
		h.Sync.PushContainer(container, householdID)
	}
}

func (h *Household) syncContainerDelete(id string) {
	if h.Sync == nil {
		return
	}
	if householdID := h.Sync.CurrentHousehold(); householdID != "" {
		h.Sync.PushContainerDelete(id, householdID)
	}
}

func (h *Household) syncRecord(record *models.WaterRecord) {
	if h.Sync == nil {
		return
	}
	if householdID := h.Sync.CurrentHousehold(); householdID != "" {
		h.Sync.PushRecord(record, householdID)
	}
}

func (h *Household) syncRecordDelete(id string) {
	if h.Sync == nil {
		return
	}
	if householdID := h.Sync.CurrentHousehold(); householdID != "" {
		h.Sync.PushRecordDelete(id, householdID)
	}
}
