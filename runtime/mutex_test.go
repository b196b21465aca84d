package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutex(t *testing.T) {
	t.Run("try lock fails while held", func(t *testing.T) {
		m := NewMutex()
		m.Lock()
		assert.False(t, m.TryLock())
		m.Unlock()
		assert.True(t, m.TryLock())
		m.Unlock()
	})

	t.Run("serializes concurrent increments", func(t *testing.T) {
		m := NewMutex()
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Lock()
				counter++
				m.Unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, 200, counter)
	})
}
