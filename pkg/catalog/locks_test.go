package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	locks := newKeyedMutex()
	var counter [2]int

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := []string{"even", "odd"}[i%2]
			unlock := locks.Lock(key)
			defer unlock()
			counter[i%2]++
		}()
	}
	wg.Wait()

	assert.Equal(t, [2]int{25, 25}, counter)
	assert.Equal(t, 0, locks.len())
}
