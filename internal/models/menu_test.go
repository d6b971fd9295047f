package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScanNeverYieldsNil(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan([]byte(`["vegan","spicy"]`)))
	assert.Equal(t, StringList{"vegan", "spicy"}, l)

	require.NoError(t, l.Scan("null"))
	assert.Equal(t, StringList{}, l)

	// Malformed payloads degrade to empty rather than failing the row read.
	require.NoError(t, l.Scan([]byte("{broken")))
	assert.Equal(t, StringList{}, l)
}

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v, "nil list is stored as NULL")

	v, err = StringList{"a"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(v.([]byte)))
}

func TestStringListMarshalsNilAsEmptyArray(t *testing.T) {
	raw, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(raw))
}

func TestOrderStatusLifecycle(t *testing.T) {
	assert.True(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransitionOrderStatus(OrderStatusConfirmed, OrderStatusReady))
	assert.True(t, CanTransitionOrderStatus(OrderStatusReady, OrderStatusCompleted))

	assert.False(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusCompleted))
	assert.False(t, CanTransitionOrderStatus(OrderStatusReady, OrderStatusCancelled))
	assert.False(t, CanTransitionOrderStatus(OrderStatusCompleted, OrderStatusCancelled))
	assert.False(t, CanTransitionOrderStatus(OrderStatusCancelled, OrderStatusPending))

	assert.True(t, ValidOrderStatus("pending"))
	assert.False(t, ValidOrderStatus("shipped"))
}
