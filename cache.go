package formulacore

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// ParseCache is a bounded, source→AST memoizing cache (§4.9). A cache hit
// returns the *same* AST object (pointer equality); a miss parses and
// inserts. Eviction is LRU, via hashicorp/golang-lru. Concurrent misses on
// the same source are collapsed with singleflight so the source is only
// parsed once.
type ParseCache struct {
	lru   *lru.Cache
	group singleflight.Group
}

const defaultParseCacheSize = 512

// NewParseCache builds a cache bounded to size entries (LRU eviction).
func NewParseCache(size int) *ParseCache {
	if size <= 0 {
		size = defaultParseCacheSize
	}
	c, _ := lru.New(size)
	return &ParseCache{lru: c}
}

// Parse returns the cached AST for source, parsing and inserting on a
// miss. Parse errors are never cached — each call re-attempts the parse.
func (pc *ParseCache) Parse(source string) (Node, *FormulaParseError) {
	if v, ok := pc.lru.Get(source); ok {
		return v.(Node), nil
	}
	v, err, _ := pc.group.Do(source, func() (any, error) {
		node, perr := Parse(source)
		if perr != nil {
			return nil, perr
		}
		return node, nil
	})
	if err != nil {
		return nil, err.(*FormulaParseError)
	}
	node := v.(Node)
	pc.lru.Add(source, node)
	return node, nil
}

// Clear empties the cache; the next Parse of any source yields a freshly
// parsed, non-identical AST (§4.9/§8 cache-identity invariant).
func (pc *ParseCache) Clear() {
	pc.lru.Purge()
}

func (pc *ParseCache) Len() int {
	return pc.lru.Len()
}
