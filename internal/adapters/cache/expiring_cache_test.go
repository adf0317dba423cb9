package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 12, 14, 30, 0, 0, time.UTC)}
}

func TestExpiringCache_ValidUntilTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewExpiringCache[string, int](600*time.Second, clock.Now)

	c.Set("a", 1)

	clock.Advance(599 * time.Second)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry must expire at exactly ttl")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestExpiringCache_SetResetsCreation(t *testing.T) {
	clock := newFakeClock()
	c := NewExpiringCache[string, string](10*time.Second, clock.Now)

	c.Set("k", "old")
	clock.Advance(8 * time.Second)
	c.Set("k", "new")
	clock.Advance(8 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestExpiringCache_Absent(t *testing.T) {
	c := NewExpiringCache[string, []int](time.Minute, nil)
	v, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestExpiringCache_ConcurrentAccess(t *testing.T) {
	c := NewExpiringCache[int, int](time.Minute, nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%4, i)
			c.Get(i % 4)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}

func TestMemoryRecordCache_StoresEmptyLists(t *testing.T) {
	clock := newFakeClock()
	rc := NewMemoryRecordCache(time.Minute, clock.Now)
	key := providers.RecordCacheKey{Kind: entities.FacilityKindHospital, Province: "서울특별시", Weekday: providers.NoWeekday}

	rc.Put(context.Background(), key, []entities.RawRecord{})

	records, ok := rc.Get(context.Background(), key)
	require.True(t, ok)
	assert.Empty(t, records)

	other := key
	other.District = "종로구"
	_, ok = rc.Get(context.Background(), other)
	assert.False(t, ok)
}

func TestExpiringCache_DefaultClockIsMonotonic(t *testing.T) {
	c := NewExpiringCache[string, int](time.Minute, nil)

	assert.Contains(t, c.now().String(), "m=")
}
