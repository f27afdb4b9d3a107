package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"samtech/internal/domain"
)

type CartStore struct{ c *mongo.Collection }

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{c: db.Collection(colCarts)}
}

type cartItemDoc struct {
	ProductID   string     `bson:"productId"`
	Quantity    int        `bson:"quantity"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Images      []imageDoc `bson:"images"`
	Price       string     `bson:"price"`
}

type cartDoc struct {
	ID        string        `bson:"_id"`
	UserID    string        `bson:"userId"`
	Items     []cartItemDoc `bson:"items"`
	ExpiresAt time.Time     `bson:"expiresAt"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d cartDoc) toDomain() (domain.Cart, error) {
	c := domain.Cart{
		ID: d.ID, UserID: d.UserID, Items: make([]domain.CartItem, 0, len(d.Items)),
		ExpiresAt: d.ExpiresAt, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	for _, it := range d.Items {
		price, err := dec("cart item price", it.Price)
		if err != nil {
			return domain.Cart{}, err
		}
		c.Items = append(c.Items, domain.CartItem{
			ProductID: it.ProductID, Quantity: it.Quantity, Title: it.Title, Description: it.Description,
			Images: imagesFromDocs(it.Images), Price: price,
		})
	}
	return c, nil
}

func cartToDoc(c *domain.Cart) cartDoc {
	d := cartDoc{
		ID: c.ID, UserID: c.UserID, Items: make([]cartItemDoc, 0, len(c.Items)),
		ExpiresAt: utc(c.ExpiresAt), CreatedAt: utc(c.CreatedAt), UpdatedAt: utc(c.UpdatedAt),
	}
	for _, it := range c.Items {
		d.Items = append(d.Items, cartItemDoc{
			ProductID: it.ProductID, Quantity: it.Quantity, Title: it.Title, Description: it.Description,
			Images: imagesToDocs(it.Images), Price: it.Price.String(),
		})
	}
	return d
}

func (s *CartStore) GetByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var d cartDoc
	if err := s.c.FindOne(ctx, bson.M{"userId": userID}).Decode(&d); err != nil {
		return domain.Cart{}, notFound(err)
	}
	return d.toDomain()
}

func (s *CartStore) Save(ctx context.Context, c *domain.Cart) error {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": c.ID}, cartToDoc(c), options.Replace().SetUpsert(true))
	return conflict(err)
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}

func (s *CartStore) RemoveProduct(ctx context.Context, productID string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"items.productId": productID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *CartStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
