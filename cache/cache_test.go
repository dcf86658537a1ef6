package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNearbyKeyQuantization(t *testing.T) {
	a := NearbyKey(14.69280001, -17.44670002, 5000, "fire", "active", 50, 0)
	b := NearbyKey(14.69280004, -17.44669998, 5000, "fire", "active", 50, 0)
	assert.Equal(t, a, b)

	c := NearbyKey(14.6930, -17.4467, 5000, "fire", "active", 50, 0)
	assert.NotEqual(t, a, c)
}

func TestNearbyKeyFormat(t *testing.T) {
	key := NearbyKey(14.6928, -17.4467, 5000, "", "active", 50, 0)
	assert.Equal(t, "emergencies:nearby:14.6928:-17.4467:5000:all:active:50:0", key)
}

func TestDisabledClientIsANoop(t *testing.T) {
	c := &Client{}
	ctx := context.Background()

	assert.False(t, c.Enabled())

	var dest []string
	assert.False(t, c.Get(ctx, "k", &dest))

	// none of these should panic without a backing connection
	c.Set(ctx, "k", []string{"v"}, time.Minute)
	c.Invalidate(ctx, ScopeNearby, ScopeAll)
	assert.NoError(t, c.Close())
}

func TestNilClientIsANoop(t *testing.T) {
	var c *Client
	assert.False(t, c.Enabled())
}
