package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const stateTTL = 10 * time.Minute

// OAuthStateRepository remembers issued OAuth state values until the
// callback consumes them or they expire.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository() *OAuthStateRepository {
	// States expire after 10 minutes, purged every 5
	c := cache.New(stateTTL, 5*time.Minute)
	return &OAuthStateRepository{
		cache: c,
	}
}

func (r *OAuthStateRepository) Save(state string) {
	r.cache.Set(state, time.Now(), cache.DefaultExpiration)
}

// Consume reports whether state was issued and is still live. A state is
// accepted at most once.
func (r *OAuthStateRepository) Consume(state string) bool {
	if _, found := r.cache.Get(state); !found {
		return false
	}
	r.cache.Delete(state)
	return true
}
