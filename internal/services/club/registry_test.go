package club

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfie-bot/shelfie/internal/models"
)

func TestRegistryStartsUnhydrated(t *testing.T) {
	registry := NewRegistry()

	guard := registry.Lock("guild-1")
	defer guard.Unlock()

	sess, hydrated := guard.Session()
	assert.Nil(t, sess)
	assert.False(t, hydrated)
}

func TestRegistryPutAndRemove(t *testing.T) {
	registry := NewRegistry()

	guard := registry.Lock("guild-1")
	guard.Put(&models.Session{ID: "session-1", GuildID: "guild-1"})
	guard.Unlock()

	guard = registry.Lock("guild-1")
	sess, hydrated := guard.Session()
	assert.True(t, hydrated)
	assert.Equal(t, "session-1", sess.ID)

	// Remove marks the guild as hydrated with no session, which is
	// distinct from never having been loaded
	guard.Remove()
	sess, hydrated = guard.Session()
	assert.Nil(t, sess)
	assert.True(t, hydrated)
	guard.Unlock()
}

func TestRegistryGuildsAreIndependent(t *testing.T) {
	registry := NewRegistry()

	guard1 := registry.Lock("guild-1")
	defer guard1.Unlock()

	// Holding guild-1 must not block guild-2
	done := make(chan struct{})
	go func() {
		guard2 := registry.Lock("guild-2")
		guard2.Put(&models.Session{ID: "session-2", GuildID: "guild-2"})
		guard2.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on guild-2 blocked behind guild-1")
	}
}

func TestRegistrySerializesSameGuild(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard := registry.Lock("guild-1")
			counter++
			guard.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
