// Package cache provides read-through decorators over repositories.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/lllypuk/passemploi/internal/domain/conseiller"
)

const (
	prefixID                 = "id:"
	prefixIDAuthentification = "auth:"
	cleanupInterval          = time.Minute
)

// ConseillerRepository caches conseiller lookups, which every authorizer performs.
// Concurrent misses on the same key share a single repository call.
// Absent conseillers are not cached.
type ConseillerRepository struct {
	next  conseiller.Repository
	cache *gocache.Cache
	group singleflight.Group
}

func NewConseillerRepository(next conseiller.Repository, ttl time.Duration) *ConseillerRepository {
	return &ConseillerRepository{
		next:  next,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (r *ConseillerRepository) Get(ctx context.Context, id string) (*conseiller.Conseiller, error) {
	return r.load(prefixID+id, func() (*conseiller.Conseiller, error) {
		return r.next.Get(ctx, id)
	})
}

func (r *ConseillerRepository) GetByIDAuthentification(
	ctx context.Context,
	idAuthentification string,
) (*conseiller.Conseiller, error) {
	return r.load(prefixIDAuthentification+idAuthentification, func() (*conseiller.Conseiller, error) {
		return r.next.GetByIDAuthentification(ctx, idAuthentification)
	})
}

// FindByAgence is not cached: agence membership changes through support operations.
func (r *ConseillerRepository) FindByAgence(ctx context.Context, idAgence string) ([]conseiller.Conseiller, error) {
	return r.next.FindByAgence(ctx, idAgence)
}

// Save writes through and evicts both keys of the conseiller.
func (r *ConseillerRepository) Save(ctx context.Context, c *conseiller.Conseiller) error {
	r.cache.Delete(prefixID + c.ID)
	if c.IDAuthentification != "" {
		r.cache.Delete(prefixIDAuthentification + c.IDAuthentification)
	}
	return r.next.Save(ctx, c)
}

func (r *ConseillerRepository) load(
	key string,
	fetch func() (*conseiller.Conseiller, error),
) (*conseiller.Conseiller, error) {
	if v, ok := r.cache.Get(key); ok {
		c := v.(conseiller.Conseiller)
		return &c, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		c, err := fetch()
		if err != nil || c == nil {
			return nil, err
		}
		r.cache.SetDefault(key, *c)
		return *c, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	c := v.(conseiller.Conseiller)
	return &c, nil
}
