// Package mongostore persists the storefront documents in MongoDB. Prices are
// stored as decimal strings so they round-trip exactly.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"samtech/internal/domain"
)

const (
	colProducts  = "products"
	colCarts     = "carts"
	colOrders    = "orders"
	colEvents    = "events"
	colBlogs     = "blogs"
	colCareers   = "careers"
	colMessages  = "messages"
	colCustomers = "users"
	colAdmins    = "admin"
)

// Connect dials MongoDB, verifies the connection and creates the indexes the
// stores rely on.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := []struct {
		col   string
		model mongo.IndexModel
	}{
		{colCarts, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique}},
		{colCarts, mongo.IndexModel{Keys: bson.D{{Key: "expiresAt", Value: 1}}}},
		{colCarts, mongo.IndexModel{Keys: bson.D{{Key: "items.productId", Value: 1}}}},
		{colOrders, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{colCustomers, mongo.IndexModel{Keys: bson.D{{Key: "emailLower", Value: 1}}, Options: unique}},
		{colCustomers, mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
		{colAdmins, mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
	}
	for _, s := range specs {
		if _, err := db.Collection(s.col).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("index %s: %w", s.col, err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

func conflict(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	return err
}

// matched turns an update/delete that touched nothing into ErrNotFound.
func matched(n int64) error {
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// dec parses a stored decimal string; field names the document field for the error.
func dec(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mongostore: corrupt %s %q: %w", field, s, err)
	}
	return d, nil
}

// contains builds a case-insensitive substring regex for s.
func contains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func newest(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

type imageDoc struct {
	URL      string `bson:"url"`
	PublicID string `bson:"public_id"`
}

func imagesToDocs(in []domain.Image) []imageDoc {
	out := make([]imageDoc, 0, len(in))
	for _, img := range in {
		out = append(out, imageDoc{URL: img.URL, PublicID: img.PublicID})
	}
	return out
}

func imagesFromDocs(in []imageDoc) []domain.Image {
	out := make([]domain.Image, 0, len(in))
	for _, d := range in {
		out = append(out, domain.Image{URL: d.URL, PublicID: d.PublicID})
	}
	return out
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
