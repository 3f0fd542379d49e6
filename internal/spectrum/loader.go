package spectrum

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
)

// Loader loads spectra through a TTL cache keyed by path, size and mtime, so
// a file rewritten in place is re-read.
type Loader struct {
	cache *cache.Cache
}

func NewLoader(ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Loader{cache: cache.New(ttl, ttl*2)}
}

func (l *Loader) Load(path string) (*Spectrum, error) {
	if l == nil || l.cache == nil {
		return Load(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if cached, found := l.cache.Get(key); found {
		return cached.(*Spectrum), nil
	}
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, s, cache.DefaultExpiration)
	return s, nil
}

func (l *Loader) ItemCount() int {
	if l == nil || l.cache == nil {
		return 0
	}
	return l.cache.ItemCount()
}
