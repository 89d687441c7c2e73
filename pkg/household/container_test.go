package household

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
	_ "github.com/izawa-yuka/uruoi/pkg/testing"
)

func TestAddContainer(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHousehold(t, nil)

	first, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 0, first.SortOrder)
	assert.False(t, first.IsArchived)

	second, err := h.Container.AddContainer("Bowl B", 150)
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder, "new containers go to the end of the list")

	var saved models.Container
	require.NoError(t, h.Db.Conn.First(&saved, "id = ?", first.ID).Error)
	assert.Equal(t, "Bowl A", saved.Name)
	assert.Equal(t, 200.0, saved.EmptyWeight)
}

func TestAddContainer_Invalid(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHousehold(t, nil)

	_, err := h.Container.AddContainer("   ", 200)
	require.Error(t, err)

	_, err = h.Container.AddContainer(strings.Repeat("a", 21), 200)
	require.Error(t, err)

	_, err = h.Container.AddContainer("Bowl A", -5)
	require.Error(t, err)

	var count int64
	require.NoError(t, h.Db.Conn.Model(&models.Container{}).Count(&count).Error)
	assert.Zero(t, count, "invalid containers must not be persisted")
}

func TestAddContainer_PushesWhenSyncing(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, mockISync, _ := GetMockHouseholdWithMemorySqlite(t, true, false)
	defer ctrl.Finish()

	mockISync.EXPECT().CurrentHousehold().Return("household-1").Times(1)
	mockISync.EXPECT().
		PushContainer(gomock.Any(), gomock.Eq("household-1")).
		Times(1)

	_, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)
}

func TestAddContainer_NoPushWithoutHousehold(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, mockISync, _ := GetMockHouseholdWithMemorySqlite(t, true, false)
	defer ctrl.Finish()

	// opt-in sync: no household configured means no push at all
	mockISync.EXPECT().CurrentHousehold().Return("").Times(1)

	_, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)
}

func TestUpdateContainer(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHousehold(t, nil)

	container, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)

	updated, err := h.Container.UpdateContainer(container.ID, "Bowl A+", 250)
	require.NoError(t, err)
	assert.Equal(t, "Bowl A+", updated.Name)
	assert.Equal(t, 250.0, updated.EmptyWeight)

	_, err = h.Container.UpdateContainer("no-such-id", "Bowl", 100)
	require.Error(t, err)
}

func TestArchiveContainer(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHousehold(t, nil)

	container, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)

	require.NoError(t, h.Container.ArchiveContainer(container.ID))

	active, err := h.Container.ListActiveContainers()
	require.NoError(t, err)
	assert.Empty(t, active, "archived containers leave the active list")

	// archived, not deleted: the row is still there for record linkage
	var saved models.Container
	require.NoError(t, h.Db.Conn.First(&saved, "id = ?", container.ID).Error)
	assert.True(t, saved.IsArchived)
}

func TestDeleteContainerCascadesRecords(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, mockISync, _ := GetMockHouseholdWithMemorySqlite(t, true, false)
	defer ctrl.Finish()

	mockISync.EXPECT().CurrentHousehold().Return("household-1").AnyTimes()
	mockISync.EXPECT().PushContainer(gomock.Any(), gomock.Any()).AnyTimes()
	mockISync.EXPECT().PushRecord(gomock.Any(), gomock.Any()).AnyTimes()
	mockISync.EXPECT().
		PushContainerDelete(gomock.Any(), gomock.Eq("household-1")).
		Times(1)

	container, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)

	_, err = h.Record.StartRecording(StartRecordingInput{
		ContainerID: container.ID,
		StartWeight: 300,
		CatCount:    2,
		At:          time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, h.Container.DeleteContainer(container.ID))

	var records int64
	require.NoError(t, h.Db.Conn.Model(&models.WaterRecord{}).Count(&records).Error)
	assert.Zero(t, records)
}

func TestReorderContainers(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHousehold(t, nil)

	a, err := h.Container.AddContainer("Bowl A", 200)
	require.NoError(t, err)
	b, err := h.Container.AddContainer("Bowl B", 150)
	require.NoError(t, err)
	c, err := h.Container.AddContainer("Bowl C", 100)
	require.NoError(t, err)

	require.NoError(t, h.Container.ReorderContainers([]string{c.ID, a.ID, b.ID}))

	active, err := h.Container.ListActiveContainers()
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, c.ID, active[0].ID)
	assert.Equal(t, a.ID, active[1].ID)
	assert.Equal(t, b.ID, active[2].ID)
}
