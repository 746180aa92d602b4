package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-labs/storefront/internal/model"
)

func TestOrderCache_GetReturnsCopy(t *testing.T) {
	c := NewOrderCache()
	c.Set(&model.Order{ID: "o1", Status: model.StatusPending})

	first, found := c.Get("o1")
	require.True(t, found)

	first.Status = model.StatusCancelled

	second, found := c.Get("o1")
	require.True(t, found)
	assert.Equal(t, model.StatusPending, second.Status, "caller mutation must not leak into the cache")
}

func TestOrderCache_Miss(t *testing.T) {
	c := NewOrderCache()
	order, found := c.Get("missing")
	assert.False(t, found)
	assert.Nil(t, order)
}

func TestOrderCache_SetAllAndDelete(t *testing.T) {
	c := NewOrderCache()
	c.SetAll([]model.Order{
		{ID: "o1", Status: model.StatusPending},
		{ID: "o2", Status: model.StatusShipped},
	})
	assert.Equal(t, 2, c.Len())

	c.Delete("o1")
	assert.Equal(t, 1, c.Len())
	_, found := c.Get("o1")
	assert.False(t, found)
}
