package household

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/izawa-yuka/uruoi/pkg/db"
	"github.com/izawa-yuka/uruoi/pkg/device"
	"github.com/izawa-yuka/uruoi/pkg/household/mocks"
	"github.com/izawa-yuka/uruoi/pkg/remote"
)

const testDeviceID = "test-device"

// newTestHousehold wires a Household against its own in-memory sqlite store
// and the given remote store (a fresh MemoryStore when nil), so tests can
// simulate several devices sharing one remote.
func newTestHousehold(t *testing.T, store remote.Store) *Household {
	t.Helper()

	dbInstance, err := db.New(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	require.NoError(t, err)

	if store == nil {
		store = remote.NewMemoryStore()
	}

	h := &Household{
		Db:     *dbInstance,
		Remote: store,
		Device: device.StaticProvider(testDeviceID),
	}
	h.WithServices(ServiceOpts{
		Container: h.GetIContainer(),
		Record:    h.GetIRecord(),
		Sync:      h.GetISync(),
		Migration: h.GetIMigration(),
		Settings:  h.GetISettings(),
	})
	return h
}

func GetMockHouseholdWithMemorySqlite(t *testing.T, useMockISync, useMockIMigration bool) (
	*gomock.Controller,
	*Household,
	*mocks.MockISync,
	*mocks.MockIMigration,
) {
	ctrl := gomock.NewController(t)

	mockISync := mocks.NewMockISync(ctrl)
	mockIMigration := mocks.NewMockIMigration(ctrl)

	h := newTestHousehold(t, nil)

	syncService := h.Sync
	if useMockISync {
		syncService = mockISync
	}

	migrationService := h.Migration
	if useMockIMigration {
		migrationService = mockIMigration
	}

	h.WithServices(ServiceOpts{
		Sync:      syncService,
		Migration: migrationService,
	})

	return ctrl, h, mockISync, mockIMigration
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
