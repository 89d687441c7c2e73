package remote

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izawa-yuka/uruoi/pkg/common"
	_ "github.com/izawa-yuka/uruoi/pkg/testing"
)

type testDoc struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	StartTime time.Time `json:"startTime"`
}

func receiveBatch(t *testing.T, sub Subscription) []DocumentChange {
	t.Helper()
	select {
	case batch, ok := <-sub.Changes():
		require.True(t, ok, "subscription closed unexpectedly")
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "households/h1/containers", "c1", testDoc{ID: "c1"}))
	require.NoError(t, store.Put(ctx, "households/h1/containers", "c2", testDoc{ID: "c2"}))

	sub, err := store.Subscribe("households/h1/containers")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	batch := receiveBatch(t, sub)
	require.Len(t, batch, 2)
	for _, change := range batch {
		assert.Equal(t, ChangeAdded, change.Kind)
	}
}

func TestSubscribeEmptyCollectionHasNoInitialBatch(t *testing.T) {
	common.SetTestLoggerNop()
	store := NewMemoryStore()

	sub, err := store.Subscribe("households/h1/containers")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	select {
	case batch := <-sub.Changes():
		t.Fatalf("expected no batch, got %v", batch)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPutDeleteChangeKinds(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	sub, err := store.Subscribe("households/h1/records")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, store.Put(ctx, "households/h1/records", "r1", testDoc{ID: "r1", Note: "first"}))
	batch := receiveBatch(t, sub)
	require.Len(t, batch, 1)
	assert.Equal(t, ChangeAdded, batch[0].Kind)
	assert.Equal(t, "r1", batch[0].ID)

	require.NoError(t, store.Put(ctx, "households/h1/records", "r1", testDoc{ID: "r1", Note: "second"}))
	batch = receiveBatch(t, sub)
	require.Len(t, batch, 1)
	assert.Equal(t, ChangeModified, batch[0].Kind)

	var doc testDoc
	require.NoError(t, json.Unmarshal(batch[0].Data, &doc))
	assert.Equal(t, "second", doc.Note)

	require.NoError(t, store.Delete(ctx, "households/h1/records", "r1"))
	batch = receiveBatch(t, sub)
	require.Len(t, batch, 1)
	assert.Equal(t, ChangeRemoved, batch[0].Kind)
	assert.Nil(t, batch[0].Data)
}

func TestPutFullDocumentReplace(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "households/h1/records", "r1", testDoc{ID: "r1", Note: "first"}))
	require.NoError(t, store.Put(ctx, "households/h1/records", "r1", testDoc{ID: "r1", Note: "second"}))

	docs, err := store.QueryLatest(ctx, "households/h1/records", "startTime", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var doc testDoc
	require.NoError(t, json.Unmarshal(docs[0].Data, &doc))
	assert.Equal(t, "second", doc.Note, "second write owns the full document")
}

func TestDeleteMissingDocumentIsNoError(t *testing.T) {
	common.SetTestLoggerNop()
	store := NewMemoryStore()
	assert.NoError(t, store.Delete(context.Background(), "households/h1/records", "missing"))
}

func TestCommitDeliversOneBatchPerCollection(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	containerSub, err := store.Subscribe("households/h1/containers")
	require.NoError(t, err)
	defer containerSub.Unsubscribe()

	recordSub, err := store.Subscribe("households/h1/records")
	require.NoError(t, err)
	defer recordSub.Unsubscribe()

	err = store.Commit(ctx, []Write{
		{Collection: "households/h1/containers", ID: "c1", Doc: testDoc{ID: "c1"}},
		{Collection: "households/h1/records", ID: "r1", Doc: testDoc{ID: "r1"}},
		{Collection: "households/h1/records", ID: "r2", Doc: testDoc{ID: "r2"}},
	})
	require.NoError(t, err)

	containerBatch := receiveBatch(t, containerSub)
	assert.Len(t, containerBatch, 1)

	recordBatch := receiveBatch(t, recordSub)
	assert.Len(t, recordBatch, 2)
}

func TestCommitAtomicOnEncodeFailure(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Commit(ctx, []Write{
		{Collection: "households/h1/containers", ID: "c1", Doc: testDoc{ID: "c1"}},
		{Collection: "households/h1/containers", ID: "bad", Doc: make(chan int)},
	})
	require.Error(t, err)

	docs, err := store.QueryLatest(ctx, "households/h1/containers", "startTime", 0)
	require.NoError(t, err)
	assert.Empty(t, docs, "failed batch must write nothing")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	sub, err := store.Subscribe("households/h1/containers")
	require.NoError(t, err)

	sub.Unsubscribe()

	_, ok := <-sub.Changes()
	assert.False(t, ok, "channel should be closed after Unsubscribe")

	// writing after unsubscribe must not panic or deliver
	require.NoError(t, store.Put(ctx, "households/h1/containers", "c1", testDoc{ID: "c1"}))
}

func TestQueryLatestOrdersByFieldDescending(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, "households/h1/records", "r1", testDoc{ID: "r1", StartTime: base}))
	require.NoError(t, store.Put(ctx, "households/h1/records", "r2", testDoc{ID: "r2", StartTime: base.Add(time.Hour)}))
	require.NoError(t, store.Put(ctx, "households/h1/records", "r3", testDoc{ID: "r3", StartTime: base.Add(-time.Hour)}))

	docs, err := store.QueryLatest(ctx, "households/h1/records", "startTime", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r2", docs[0].ID)
}

func TestQueryLatestEmptyCollection(t *testing.T) {
	common.SetTestLoggerNop()
	store := NewMemoryStore()

	docs, err := store.QueryLatest(context.Background(), "households/h1/records", "startTime", 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
