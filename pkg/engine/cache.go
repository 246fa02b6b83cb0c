package engine

import (
	"sort"
	"sync"
)

// DefaultTreeCacheSize is the number of entries used when none is given
const DefaultTreeCacheSize = 1 << 12

// treeKey identifies one move-tree search. Dice are sorted descending
// and padded with zeros so equal pools share a key.
type treeKey struct {
	pos    Position
	player Player
	dice   [4]int
	opts   TableOptions
}

func makeTreeKey(pos Position, pool DicePool, p Player, opts TableOptions) treeKey {
	k := treeKey{pos: pos, player: p, opts: opts}
	dice := append([]int(nil), pool...)
	sort.Sort(sort.Reverse(sort.IntSlice(dice)))
	copy(k.dice[:], dice)
	return k
}

// words flattens the key for hashing
func (k *treeKey) words() []uint32 {
	w := make([]uint32, 0, NumPoints+9)
	for _, v := range k.pos.Board {
		w = append(w, uint32(v))
	}
	w = append(w,
		uint32(k.pos.Bar.White), uint32(k.pos.Bar.Black),
		uint32(k.pos.Home.White), uint32(k.pos.Home.Black),
		uint32(k.player),
	)
	dice := uint32(0)
	for _, d := range k.dice {
		dice = dice<<4 | uint32(d)
	}
	flags := uint32(0)
	if k.opts.AllowBearOffOvershoot {
		flags |= 1
	}
	if k.opts.RequireHigherDie {
		flags |= 2
	}
	return append(w, dice, flags)
}

type treeEntry struct {
	key    treeKey
	result TreeResult
	valid  bool
}

// treeNode holds primary and secondary entries for two-way associative cache
type treeNode struct {
	primary   treeEntry
	secondary treeEntry
}

// TreeCache is a thread-safe cache of move-tree search results.
// Uses a two-way associative cache with MurmurHash3-based indexing.
//
// Cached results are shared: callers must not modify the returned Paths.
type TreeCache struct {
	entries  []treeNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.Mutex
}

// TreeCacheStats reports cache usage.
type TreeCacheStats struct {
	Size    uint32 `json:"size"`
	Lookups uint64 `json:"lookups"`
	Hits    uint64 `json:"hits"`
	Adds    uint64 `json:"adds"`
}

// NewTreeCache creates a cache with room for size entries.
// Size will be adjusted to the nearest power of 2, at least 2.
func NewTreeCache(size uint32) *TreeCache {
	if size > 1<<24 {
		size = 1 << 24
	}
	p := uint32(2)
	for p < size {
		p <<= 1
	}

	return &TreeCache{
		entries:  make([]treeNode, p/2),
		size:     p,
		hashMask: p/2 - 1,
	}
}

// hash computes the slot for a key using MurmurHash3-style mixing
func (c *TreeCache) hash(key *treeKey) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)
	words := key.words()
	for _, k := range words {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	// Finalization
	h ^= uint32(len(words) * 4)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Search returns the move-tree result for p playing pool from pos,
// running SearchMoveTree on a miss.
func (c *TreeCache) Search(pos Position, pool DicePool, p Player, opts TableOptions) TreeResult {
	key := makeTreeKey(pos, pool, p, opts)
	slot := c.hash(&key)

	c.mu.Lock()
	c.lookups++
	node := &c.entries[slot]
	switch {
	case node.primary.valid && node.primary.key == key:
		c.hits++
		res := node.primary.result
		c.mu.Unlock()
		return res
	case node.secondary.valid && node.secondary.key == key:
		c.hits++
		// Promote to primary
		node.primary, node.secondary = node.secondary, node.primary
		res := node.primary.result
		c.mu.Unlock()
		return res
	}
	c.mu.Unlock()

	res := SearchMoveTree(pos, pool, p, opts)

	c.mu.Lock()
	node.secondary = node.primary
	node.primary = treeEntry{key: key, result: res, valid: true}
	c.adds++
	c.mu.Unlock()
	return res
}

// MaxDiceUsable is the cached form of the package-level MaxDiceUsable.
func (c *TreeCache) MaxDiceUsable(state *GameState, p Player) int {
	return c.Search(state.Position, state.RemainingDice(), p, state.Options).MaxDice
}

// Flush clears all entries from the cache
func (c *TreeCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i] = treeNode{}
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// Stats returns cache statistics
func (c *TreeCache) Stats() TreeCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TreeCacheStats{Size: c.size, Lookups: c.lookups, Hits: c.hits, Adds: c.adds}
}

// HitRate returns the cache hit rate as a percentage
func (c *TreeCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}
