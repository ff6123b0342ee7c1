package tile

import (
	"github.com/arloliu/fitsimage/compress"
)

type entry struct {
	data   []byte
	rawLen int
}

// fifoCache holds tiles by id and evicts the oldest first.
type fifoCache struct {
	codec    compress.Codec
	entries  map[int]entry
	order    []int
	capacity int // tiles, 0 = unlimited

	residentBytes int64
	rawBytes      int64
	evictions     int64
}

func newFIFOCache(codec compress.Codec, capacity int) *fifoCache {
	return &fifoCache{
		codec:    codec,
		entries:  make(map[int]entry),
		capacity: capacity,
	}
}

// get returns the raw bytes of tile id. The result must not be modified.
func (c *fifoCache) get(id int) ([]byte, bool, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, false, nil
	}

	raw, err := compress.Restore(c.codec, e.data, e.rawLen)
	if err != nil {
		c.remove(id)
		return nil, false, err
	}

	return raw, true, nil
}

// put stores raw as tile id, evicting old tiles to stay within capacity.
// The newest tile is always kept.
func (c *fifoCache) put(id int, raw []byte) error {
	if _, ok := c.entries[id]; ok {
		return nil
	}

	data, err := c.codec.Compress(raw)
	if err != nil {
		return err
	}

	if c.capacity > 0 {
		c.trim(c.capacity - 1)
	}

	c.entries[id] = entry{data: data, rawLen: len(raw)}
	c.order = append(c.order, id)
	c.residentBytes += int64(len(data))
	c.rawBytes += int64(len(raw))

	return nil
}

// resize sets the capacity in tiles and evicts down to it.
func (c *fifoCache) resize(capacity int) {
	c.capacity = capacity
	if capacity > 0 {
		c.trim(capacity)
	}
}

// trim evicts the oldest tiles until at most n remain.
func (c *fifoCache) trim(n int) {
	for len(c.order) > n {
		id := c.order[0]
		c.order = c.order[1:]
		c.drop(id)
		c.evictions++
	}
}

func (c *fifoCache) remove(id int) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.drop(id)
}

func (c *fifoCache) drop(id int) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	delete(c.entries, id)
	c.residentBytes -= int64(len(e.data))
	c.rawBytes -= int64(e.rawLen)
}

func (c *fifoCache) clear() {
	clear(c.entries)
	c.order = nil
	c.residentBytes = 0
	c.rawBytes = 0
}

func (c *fifoCache) len() int {
	return len(c.entries)
}
