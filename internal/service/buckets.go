package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/backend"
	"github.com/mmynk/schoolfees/internal/metrics"
	"github.com/mmynk/schoolfees/internal/models"
	"github.com/mmynk/schoolfees/internal/validation"
)

// DefaultCommonBuckets are created when a bulk creation names no buckets.
var DefaultCommonBuckets = []string{
	"Tuition",
	"Transport",
	"Boarding",
	"Meals",
	"Uniform",
	"Activity",
	"Examination",
}

// BucketRegistry lists and creates fee buckets.
type BucketRegistry struct {
	api      backend.API
	catalogs *Catalogs
}

// NewBucketRegistry creates a registry over the backend.
func NewBucketRegistry(api backend.API, catalogs *Catalogs) *BucketRegistry {
	return &BucketRegistry{api: api, catalogs: catalogs}
}

// List fetches every bucket known to the backend. The last successful fetch replaces
// the cached list; a failed fetch leaves it untouched.
func (r *BucketRegistry) List(ctx context.Context) ([]models.FeeBucket, error) {
	buckets, err := r.catalogs.For(ctx).Buckets.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// Active returns the active buckets, from the cache when it is fresh.
func (r *BucketRegistry) Active(ctx context.Context) ([]models.FeeBucket, error) {
	buckets, err := r.catalogs.For(ctx).Buckets.Get(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(buckets, func(b models.FeeBucket, _ int) bool { return b.IsActive }), nil
}

// Create creates a bucket and appends it to the cached list once.
func (r *BucketRegistry) Create(ctx context.Context, name, description string) (models.FeeBucket, error) {
	name = validation.CleanString(name)
	if name == "" {
		return models.FeeBucket{}, apperr.NewValidationError(
			errors.New("name required"),
			apperr.FieldError{Field: "name", Error: "name required"},
		)
	}

	bucket, err := r.api.CreateFeeBucket(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return models.FeeBucket{}, err
	}

	r.catalogs.For(ctx).Buckets.Update(func(buckets []models.FeeBucket) []models.FeeBucket {
		return appendBucket(buckets, bucket)
	})
	metrics.BucketsCreated.Inc()

	slog.Info("Fee bucket created", "bucket_id", bucket.ID, "name", bucket.Name)
	return bucket, nil
}

// BulkCreateCommon creates one bucket per name, in order. A failed creation is logged
// and recorded; it never stops the remaining ones.
func (r *BucketRegistry) BulkCreateCommon(ctx context.Context, names []string) models.BatchResult[models.FeeBucket] {
	if len(names) == 0 {
		names = DefaultCommonBuckets
	}

	var result models.BatchResult[models.FeeBucket]
	for _, name := range names {
		bucket, err := r.Create(ctx, name, "")
		if err != nil {
			slog.Warn("Failed to create common bucket", "name", name, "error", err)
			result.AddFailure(name, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, bucket)
	}

	slog.Info("Common buckets created",
		"created", len(result.Succeeded),
		"failed", len(result.Failed),
	)
	return result
}

// appendBucket appends b unless a bucket with the same id is already present.
func appendBucket(buckets []models.FeeBucket, b models.FeeBucket) []models.FeeBucket {
	if lo.ContainsBy(buckets, func(existing models.FeeBucket) bool { return existing.ID == b.ID }) {
		return buckets
	}
	return append(buckets, b)
}
