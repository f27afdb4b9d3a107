package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"samtech/internal/domain"
)

type CustomerStore struct{ c *mongo.Collection }

func NewCustomerStore(db *mongo.Database) *CustomerStore {
	return &CustomerStore{c: db.Collection(colCustomers)}
}

type customerDoc struct {
	ID          string    `bson:"_id"`
	Username    string    `bson:"username"`
	Email       string    `bson:"email"`
	EmailLower  string    `bson:"emailLower"`
	DateOfBirth string    `bson:"dateOfBirth"`
	Gender      string    `bson:"gender"`
	PhoneNumber string    `bson:"phoneNumber"`
	Hash        string    `bson:"password"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID: d.ID, Username: d.Username, Email: d.Email, DateOfBirth: d.DateOfBirth,
		Gender: d.Gender, PhoneNumber: d.PhoneNumber, Hash: d.Hash, CreatedAt: d.CreatedAt,
	}
}

func (s *CustomerStore) Create(ctx context.Context, c *domain.Customer) error {
	_, err := s.c.InsertOne(ctx, customerDoc{
		ID: c.ID, Username: c.Username, Email: c.Email, EmailLower: strings.ToLower(c.Email),
		DateOfBirth: c.DateOfBirth, Gender: c.Gender, PhoneNumber: c.PhoneNumber, Hash: c.Hash, CreatedAt: utc(c.CreatedAt),
	})
	return conflict(err)
}

func (s *CustomerStore) Get(ctx context.Context, id string) (domain.Customer, error) {
	return s.one(ctx, bson.M{"_id": id})
}

func (s *CustomerStore) ByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return s.one(ctx, bson.M{"emailLower": strings.ToLower(strings.TrimSpace(email))})
}

func (s *CustomerStore) one(ctx context.Context, filter bson.M) (domain.Customer, error) {
	var d customerDoc
	if err := s.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.Customer{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *CustomerStore) Update(ctx context.Context, c *domain.Customer) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"username":    c.Username,
		"email":       c.Email,
		"emailLower":  strings.ToLower(c.Email),
		"dateOfBirth": c.DateOfBirth,
		"gender":      c.Gender,
		"phoneNumber": c.PhoneNumber,
	}})
	if err != nil {
		return conflict(err)
	}
	return matched(res.MatchedCount)
}

func (s *CustomerStore) SetPassword(ctx context.Context, id, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}

type AdminStore struct{ c *mongo.Collection }

func NewAdminStore(db *mongo.Database) *AdminStore { return &AdminStore{c: db.Collection(colAdmins)} }

type adminDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Hash      string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (s *AdminStore) Create(ctx context.Context, a *domain.Admin) error {
	_, err := s.c.InsertOne(ctx, adminDoc{ID: a.ID, Username: a.Username, Hash: a.Hash, CreatedAt: utc(a.CreatedAt)})
	return conflict(err)
}

func (s *AdminStore) Get(ctx context.Context, id string) (domain.Admin, error) {
	return s.one(ctx, bson.M{"_id": id})
}

func (s *AdminStore) ByUsername(ctx context.Context, username string) (domain.Admin, error) {
	return s.one(ctx, bson.M{"username": username})
}

func (s *AdminStore) one(ctx context.Context, filter bson.M) (domain.Admin, error) {
	var d adminDoc
	if err := s.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.Admin{}, notFound(err)
	}
	return domain.Admin{ID: d.ID, Username: d.Username, Hash: d.Hash, CreatedAt: d.CreatedAt}, nil
}

func (s *AdminStore) SetPassword(ctx context.Context, id, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}
