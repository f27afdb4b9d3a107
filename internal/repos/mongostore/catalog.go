package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"samtech/internal/domain"
)

type ProductStore struct{ c *mongo.Collection }

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{c: db.Collection(colProducts)}
}

type productDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Price       string     `bson:"price"`
	Discount    string     `bson:"discount"`
	Images      []imageDoc `bson:"images"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := dec("product price", d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID: d.ID, Title: d.Title, Description: d.Description, Price: price, Discount: d.Discount,
		Images: imagesFromDocs(d.Images), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

func productToDoc(p *domain.Product) productDoc {
	return productDoc{
		ID: p.ID, Title: p.Title, Description: p.Description, Price: p.Price.String(), Discount: p.Discount,
		Images: imagesToDocs(p.Images), CreatedAt: utc(p.CreatedAt), UpdatedAt: utc(p.UpdatedAt),
	}
}

func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	cur, err := s.c.Find(ctx, bson.M{}, newest("createdAt"))
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	var d productDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Product{}, notFound(err)
	}
	return d.toDomain()
}

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	_, err := s.c.InsertOne(ctx, productToDoc(p))
	return err
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, productToDoc(p))
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}

type EventStore struct{ c *mongo.Collection }

func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{c: db.Collection(colEvents)}
}

type eventDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Date        time.Time  `bson:"date"`
	Images      []imageDoc `bson:"images"`
	VideoURLs   []string   `bson:"youtubeUrls"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func (d eventDoc) toDomain() domain.Event {
	urls := d.VideoURLs
	if urls == nil {
		urls = []string{}
	}
	return domain.Event{
		ID: d.ID, Title: d.Title, Description: d.Description, Date: d.Date,
		Images: imagesFromDocs(d.Images), VideoURLs: urls, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func eventToDoc(e *domain.Event) eventDoc {
	return eventDoc{
		ID: e.ID, Title: e.Title, Description: e.Description, Date: utc(e.Date),
		Images: imagesToDocs(e.Images), VideoURLs: e.VideoURLs, CreatedAt: utc(e.CreatedAt), UpdatedAt: utc(e.UpdatedAt),
	}
}

func (s *EventStore) List(ctx context.Context) ([]domain.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{}, newest("date"))
	if err != nil {
		return nil, err
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *EventStore) Get(ctx context.Context, id string) (domain.Event, error) {
	var d eventDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Event{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	_, err := s.c.InsertOne(ctx, eventToDoc(e))
	return err
}

func (s *EventStore) Update(ctx context.Context, e *domain.Event) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": e.ID}, eventToDoc(e))
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}
