package audiostore

import (
	"sync"

	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

// claimSet: хэндлы, которые прямо сейчас отдаются клиенту.
type claimSet struct {
	mu sync.Mutex
	m  map[ports.AudioHandle]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{m: make(map[ports.AudioHandle]struct{})}
}

func (c *claimSet) acquire(h ports.AudioHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.m[h]; busy {
		return false
	}
	c.m[h] = struct{}{}
	return true
}

func (c *claimSet) release(h ports.AudioHandle) {
	c.mu.Lock()
	delete(c.m, h)
	c.mu.Unlock()
}

func (c *claimSet) held(h ports.AudioHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.m[h]
	return busy
}
