package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, SlotCustomers)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, SlotCustomers, []byte(`[{"id":"a"}]`)))
	data, err := m.Get(ctx, SlotCustomers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))

	require.NoError(t, m.Delete(ctx, SlotCustomers))
	_, err = m.Get(ctx, SlotCustomers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, SlotCart, []byte(`[1]`)))
	data, err := m.Get(ctx, SlotCart)
	require.NoError(t, err)
	data[0] = 'X'

	again, err := m.Get(ctx, SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(again))
}

func TestMemorySubscribe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	changed := make(chan struct{}, 4)
	cancel := m.Subscribe(SlotOrders, func() { changed <- struct{}{} })

	require.NoError(t, m.Set(ctx, SlotOrders, []byte(`[]`)))
	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("no notification after Set")
	}

	// other slots do not notify
	require.NoError(t, m.Set(ctx, SlotCart, []byte(`[]`)))
	select {
	case <-changed:
		t.Fatal("notified for a different slot")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.NoError(t, m.Set(ctx, SlotOrders, []byte(`[1]`)))
	select {
	case <-changed:
		t.Fatal("notified after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoadRecoversCorruptSlot(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.Nil(t, Load[widget](ctx, m, SlotCustomers))

	require.NoError(t, m.Set(ctx, SlotCustomers, []byte(`{not json`)))
	assert.Nil(t, Load[widget](ctx, m, SlotCustomers))

	// wrong shape loads as empty too
	require.NoError(t, m.Set(ctx, SlotCustomers, []byte(`{"id":"a"}`)))
	assert.Nil(t, Load[widget](ctx, m, SlotCustomers))
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, Save[widget](ctx, m, SlotCustomers, nil))
	data, err := m.Get(ctx, SlotCustomers)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, Save(ctx, m, SlotCustomers, []widget{{ID: "a"}}))

	wantErr := assert.AnError
	err := Update(ctx, m, SlotCustomers, func(items []widget) ([]widget, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	got := Load[widget](ctx, m, SlotCustomers)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestUpdateRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := Update(ctx, m, SlotCustomers, func(items []widget) ([]widget, error) {
		return append(items, widget{ID: "a", Name: "first"}), nil
	})
	require.NoError(t, err)
	err = Update(ctx, m, SlotCustomers, func(items []widget) ([]widget, error) {
		return append(items, widget{ID: "b", Name: "second"}), nil
	})
	require.NoError(t, err)

	got := Load[widget](ctx, m, SlotCustomers)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestLoadOneSaveOne(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok := LoadOne[widget](ctx, m, SlotSession)
	assert.False(t, ok)

	require.NoError(t, SaveOne(ctx, m, SlotSession, widget{ID: "s1", Name: "session"}))
	got, ok := LoadOne[widget](ctx, m, SlotSession)
	require.True(t, ok)
	assert.Equal(t, "s1", got.ID)

	require.NoError(t, m.Set(ctx, SlotSession, []byte(`broken`)))
	_, ok = LoadOne[widget](ctx, m, SlotSession)
	assert.False(t, ok)
}
