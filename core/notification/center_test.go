package notification

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingResolvesInPlace(t *testing.T) {
	c := NewCenter()

	id := c.Pending("Adding student...")
	recent := c.Recent(5)
	require.Len(t, recent, 1)
	assert.Equal(t, StatusPending, recent[0].Status)
	assert.True(t, recent[0].ResolvedAt.IsZero())

	c.Resolve(id, true, "Student added")
	recent = c.Recent(5)
	require.Len(t, recent, 1, "resolution must not append a new toast")
	assert.Equal(t, id, recent[0].ID)
	assert.Equal(t, StatusSuccess, recent[0].Status)
	assert.Equal(t, "Student added", recent[0].Message)
	assert.False(t, recent[0].ResolvedAt.IsZero())
}

func TestResolveOnlyOnce(t *testing.T) {
	c := NewCenter()
	id := c.Pending("working")

	c.Resolve(id, false, "failed")
	c.Resolve(id, true, "actually fine")

	recent := c.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, StatusError, recent[0].Status)
	assert.Equal(t, "failed", recent[0].Message)
}

func TestResolveUnknownIDIgnored(t *testing.T) {
	c := NewCenter()
	c.Resolve("no-such-id", true, "hello")
	assert.Empty(t, c.Recent(5))
}

func TestResolveKeepsMessageWhenEmpty(t *testing.T) {
	c := NewCenter()
	id := c.Pending("Saving...")
	c.Resolve(id, true, "")

	recent := c.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "Saving...", recent[0].Message)
}

func TestRecentNewestFirst(t *testing.T) {
	c := NewCenter()
	c.Success("first")
	c.Error("second")
	c.Success("third")

	recent := c.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Message)
	assert.Equal(t, "second", recent[1].Message)
}

func TestOldestToastsEvicted(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 55; i++ {
		c.Success(fmt.Sprintf("toast %d", i))
	}

	recent := c.Recent(100)
	require.Len(t, recent, 50)
	assert.Equal(t, "toast 54", recent[0].Message)
	assert.Equal(t, "toast 5", recent[len(recent)-1].Message)
}

func TestSubscribeSeesPostsAndResolutions(t *testing.T) {
	c := NewCenter()

	var mu sync.Mutex
	var got []Notification
	cancel := c.Subscribe(func(n Notification) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})

	id := c.Pending("working")
	c.Resolve(id, true, "done")

	mu.Lock()
	require.Len(t, got, 2)
	assert.Equal(t, StatusPending, got[0].Status)
	assert.Equal(t, StatusSuccess, got[1].Status)
	mu.Unlock()

	cancel()
	c.Error("after cancel")
	mu.Lock()
	assert.Len(t, got, 2)
	mu.Unlock()
}
