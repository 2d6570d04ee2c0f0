package service

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/cache"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/tenant"
)

// Cache keys, one per backend list query.
const (
	KeyFeeBuckets    = "feeBuckets"
	KeyFeeStructures = "feeStructures"
	KeyGrades        = "grades"
)

// Catalog holds the cached backend lists of one school.
type Catalog struct {
	Buckets    *cache.Query[[]models.FeeBucket]
	Structures *cache.Query[[]models.FeeStructure]
	Grades     *cache.Query[[]models.Grade]

	registry *cache.Registry
}

func newCatalog(api backend.API) *Catalog {
	c := &Catalog{
		Buckets:    cache.NewQuery(KeyFeeBuckets, api.ListFeeBuckets),
		Structures: cache.NewQuery(KeyFeeStructures, api.ListFeeStructures),
		Grades:     cache.NewQuery(KeyGrades, api.ListGrades),
		registry:   cache.NewRegistry(),
	}
	c.registry.Register(c.Buckets, c.Structures, c.Grades)
	return c
}

// Invalidate marks the named lists stale.
func (c *Catalog) Invalidate(keys ...string) {
	c.registry.Invalidate(keys...)
}

// MaxCachedSchools bounds the number of schools whose lists are cached. The school id
// header is not verified, so the least recently used school is dropped past the cap.
const MaxCachedSchools = 256

// Catalogs keeps one Catalog per school so cached lists never cross tenants.
type Catalogs struct {
	api backend.API

	mu       sync.Mutex
	bySchool *lru.Cache[string, *Catalog]
}

// NewCatalogs creates an empty catalog set over the backend.
func NewCatalogs(api backend.API) *Catalogs {
	return newCatalogs(api, MaxCachedSchools)
}

func newCatalogs(api backend.API, size int) *Catalogs {
	bySchool, err := lru.New[string, *Catalog](size)
	if err != nil {
		panic(err)
	}
	return &Catalogs{api: api, bySchool: bySchool}
}

// For returns the catalog of the school in ctx, creating it on first use.
func (c *Catalogs) For(ctx context.Context) *Catalog {
	school := tenant.SchoolID(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.bySchool.Get(school)
	if !ok {
		cat = newCatalog(c.api)
		c.bySchool.Add(school, cat)
	}
	return cat
}

// Len returns the number of schools with cached lists.
func (c *Catalogs) Len() int {
	return c.bySchool.Len()
}
