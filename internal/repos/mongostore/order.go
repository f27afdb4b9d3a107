package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"samtech/internal/domain"
)

// OrderStore has no multi-document transaction: PlaceFromCart inserts the
// order, then deletes the cart. A crash in between leaves the cart in place,
// so a duplicate order is possible until the sweeper removes it at expiry.
type OrderStore struct {
	c         *mongo.Collection
	carts     *mongo.Collection
	customers *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{
		c:         db.Collection(colOrders),
		carts:     db.Collection(colCarts),
		customers: db.Collection(colCustomers),
	}
}

type orderItemDoc struct {
	ProductID      string     `bson:"productId"`
	Quantity       int        `bson:"quantity"`
	Title          string     `bson:"title"`
	Description    string     `bson:"description"`
	Images         []imageDoc `bson:"images"`
	Price          string     `bson:"price"`
	PurchasedPrice string     `bson:"purchasedPrice"`
}

type orderDoc struct {
	ID               string         `bson:"_id"`
	UserID           string         `bson:"userId"`
	Items            []orderItemDoc `bson:"items"`
	TotalAmount      string         `bson:"totalAmount"`
	Status           string         `bson:"status"`
	DeliveryLocation string         `bson:"deliveryLocation"`
	PhoneNumber      string         `bson:"phoneNumber"`
	CreatedAt        time.Time      `bson:"createdAt"`
	UpdatedAt        time.Time      `bson:"updatedAt"`
}

func (d orderDoc) toDomain() (domain.Order, error) {
	total, err := dec("order total", d.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		ID: d.ID, UserID: d.UserID, Items: make([]domain.OrderItem, 0, len(d.Items)),
		TotalAmount: total, Status: domain.OrderStatus(d.Status),
		DeliveryLocation: d.DeliveryLocation, PhoneNumber: d.PhoneNumber,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	for _, it := range d.Items {
		price, err := dec("order item price", it.Price)
		if err != nil {
			return domain.Order{}, err
		}
		paid, err := dec("order item purchasedPrice", it.PurchasedPrice)
		if err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID, Quantity: it.Quantity, Title: it.Title, Description: it.Description,
			Images: imagesFromDocs(it.Images), Price: price, PurchasedPrice: paid,
		})
	}
	return o, nil
}

func orderToDoc(o *domain.Order) orderDoc {
	d := orderDoc{
		ID: o.ID, UserID: o.UserID, Items: make([]orderItemDoc, 0, len(o.Items)),
		TotalAmount: o.TotalAmount.String(), Status: string(o.Status),
		DeliveryLocation: o.DeliveryLocation, PhoneNumber: o.PhoneNumber,
		CreatedAt: utc(o.CreatedAt), UpdatedAt: utc(o.UpdatedAt),
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, orderItemDoc{
			ProductID: it.ProductID, Quantity: it.Quantity, Title: it.Title, Description: it.Description,
			Images: imagesToDocs(it.Images), Price: it.Price.String(), PurchasedPrice: it.PurchasedPrice.String(),
		})
	}
	return d
}

func (s *OrderStore) PlaceFromCart(ctx context.Context, o *domain.Order, cartID string) error {
	if _, err := s.c.InsertOne(ctx, orderToDoc(o)); err != nil {
		return err
	}
	_, err := s.carts.DeleteOne(ctx, bson.M{"_id": cartID, "userId": o.UserID})
	return err
}

func (s *OrderStore) Get(ctx context.Context, id string) (domain.Order, error) {
	var d orderDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Order{}, notFound(err)
	}
	return d.toDomain()
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *OrderStore) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		or := bson.A{
			bson.M{"_id": contains(q)},
			bson.M{"deliveryLocation": contains(q)},
			bson.M{"items.title": contains(q)},
			bson.M{"items.description": contains(q)},
		}
		ids, err := s.customerIDsByEmail(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			or = append(or, bson.M{"userId": bson.M{"$in": ids}})
		}
		filter["$or"] = or
	}
	return s.find(ctx, filter)
}

func (s *OrderStore) customerIDsByEmail(ctx context.Context, q string) ([]string, error) {
	cur, err := s.customers.Find(ctx, bson.M{"email": contains(q)}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := s.c.Find(ctx, filter, newest("createdAt"))
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var d orderDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return domain.Order{}, notFound(err)
	}
	return d.toDomain()
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}
