package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.Now
	return m, clock
}

func TestMemory_SetGet(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("phone:+911234567890", "482193", 5*time.Minute)

	v, ok := m.Get("phone:+911234567890")
	require.True(t, ok)
	assert.Equal(t, "482193", v)

	created, ok := m.CreatedAt("phone:+911234567890")
	require.True(t, ok)
	assert.Equal(t, clock.Now(), created)
}

func TestMemory_CompareAndDelete_SingleUse(t *testing.T) {
	m, _ := newTestMemory()
	m.Set("k", "123456", time.Minute)

	assert.True(t, m.CompareAndDelete("k", "123456"))
	assert.False(t, m.CompareAndDelete("k", "123456"))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_CompareAndDelete_Mismatch(t *testing.T) {
	m, _ := newTestMemory()
	m.Set("k", "123456", time.Minute)

	assert.False(t, m.CompareAndDelete("k", "123457"))
	assert.False(t, m.CompareAndDelete("k", " 123456"))
	assert.True(t, m.CompareAndDelete("k", "123456"))
}

func TestMemory_ExpiredEntryIsGone(t *testing.T) {
	m, clock := newTestMemory()
	m.Set("k", "123456", 5*time.Minute)

	clock.Advance(5 * time.Minute)

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.False(t, m.CompareAndDelete("k", "123456"))
}

func TestMemory_SetOverwrites(t *testing.T) {
	m, _ := newTestMemory()
	m.Set("k", "111111", time.Minute)
	m.Set("k", "222222", time.Minute)

	assert.False(t, m.CompareAndDelete("k", "111111"))
	assert.True(t, m.CompareAndDelete("k", "222222"))
}

func TestMemory_TimerRemovesEntry(t *testing.T) {
	m := NewMemory()
	m.Set("k", "v", 10*time.Millisecond)

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemory_StaleTimerKeepsNewerEntry(t *testing.T) {
	m := NewMemory()
	m.Set("k", "old", 10*time.Millisecond)

	// Simulate the old timer firing after the key was re-set.
	m.mu.Lock()
	oldGen := m.entries["k"].gen
	m.mu.Unlock()

	m.Set("k", "new", time.Minute)
	m.expire("k", oldGen)

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestMemory_Delete(t *testing.T) {
	m, _ := newTestMemory()
	m.Set("k", "v", time.Minute)

	assert.True(t, m.Delete("k"))
	assert.False(t, m.Delete("k"))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			m.Set(key, "v", time.Minute)
			m.Get(key)
			m.CompareAndDelete(key, "v")
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Len(), 5)
}
