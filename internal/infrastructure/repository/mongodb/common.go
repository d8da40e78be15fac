package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/domain/errs"
)

// HandleMongoError maps a driver error onto the domain sentinels.
//   - nil when err is nil
//   - errs.ErrNotFound when no document matched
//   - errs.ErrAlreadyExists on a unique index violation
//   - a wrapped error otherwise
func HandleMongoError(err error, resourceType string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}

	return fmt.Errorf("failed to operate on %s: %w", resourceType, err)
}

// UpsertOptions returns the options of an upserting ReplaceOne.
func UpsertOptions() *options.ReplaceOptionsBuilder {
	return options.Replace().SetUpsert(true)
}

// Option configures a repository.
type Option func(*base)

// WithLogger sets the logger used for driver failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

// base holds what every repository shares.
type base struct {
	collection *mongo.Collection
	logger     *slog.Logger
	resource   string
}

func newBase(collection *mongo.Collection, resource string, opts []Option) base {
	b := base{
		collection: collection,
		logger:     slog.Default(),
		resource:   resource,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// findOne decodes the single document matching filter.
// A missing document is reported as nil, nil.
func findOne[D any, R any](ctx context.Context, b *base, filter bson.M, decode func(*D) *R) (*R, error) {
	var doc D
	err := b.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to find "+b.resource,
			slog.Any("filter", filter),
			slog.String("error", err.Error()),
		)
		return nil, HandleMongoError(err, b.resource)
	}
	return decode(&doc), nil
}

// findMany decodes every document matching filter, never returning a nil slice.
// Documents that fail to decode are skipped.
func findMany[D any, R any](
	ctx context.Context,
	b *base,
	filter bson.M,
	decode func(*D) *R,
	opts ...options.Lister[options.FindOptions],
) ([]R, error) {
	cursor, err := b.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, HandleMongoError(err, b.resource)
	}
	defer cursor.Close(ctx)

	results := make([]R, 0)
	for cursor.Next(ctx) {
		var doc D
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			b.logger.WarnContext(ctx, "skipping undecodable "+b.resource,
				slog.String("error", decodeErr.Error()),
			)
			continue
		}
		results = append(results, *decode(&doc))
	}

	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return results, nil
}

// upsert replaces the document matching filter, creating it when absent.
// Optional fields cleared on the aggregate disappear from the stored document.
func (b *base) upsert(ctx context.Context, filter bson.M, doc any) error {
	_, err := b.collection.ReplaceOne(ctx, filter, doc, UpsertOptions())
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to save "+b.resource,
			slog.Any("filter", filter),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, b.resource)
}

// deleteOne removes the document matching filter. Deleting a missing document is not an error.
func (b *base) deleteOne(ctx context.Context, filter bson.M) error {
	_, err := b.collection.DeleteOne(ctx, filter)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to delete "+b.resource,
			slog.Any("filter", filter),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, b.resource)
}

// exists reports whether at least one document matches filter.
func (b *base) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := b.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, b.resource)
	}
	return count > 0, nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue returns the empty string for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
