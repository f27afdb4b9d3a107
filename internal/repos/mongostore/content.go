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

type BlogStore struct{ c *mongo.Collection }

func NewBlogStore(db *mongo.Database) *BlogStore { return &BlogStore{c: db.Collection(colBlogs)} }

type blogDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Author    string    `bson:"author"`
	Date      time.Time `bson:"date"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d blogDoc) toDomain() domain.Blog {
	return domain.Blog{ID: d.ID, Title: d.Title, Content: d.Content, Author: d.Author, Date: d.Date, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func blogToDoc(b *domain.Blog) blogDoc {
	return blogDoc{ID: b.ID, Title: b.Title, Content: b.Content, Author: b.Author, Date: utc(b.Date), CreatedAt: utc(b.CreatedAt), UpdatedAt: utc(b.UpdatedAt)}
}

func (s *BlogStore) List(ctx context.Context) ([]domain.Blog, error) {
	cur, err := s.c.Find(ctx, bson.M{}, newest("date"))
	if err != nil {
		return nil, err
	}
	var docs []blogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Blog, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *BlogStore) Get(ctx context.Context, id string) (domain.Blog, error) {
	var d blogDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Blog{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *BlogStore) Create(ctx context.Context, b *domain.Blog) error {
	_, err := s.c.InsertOne(ctx, blogToDoc(b))
	return err
}

func (s *BlogStore) Update(ctx context.Context, b *domain.Blog) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": b.ID}, blogToDoc(b))
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}

type CareerStore struct{ c *mongo.Collection }

func NewCareerStore(db *mongo.Database) *CareerStore { return &CareerStore{c: db.Collection(colCareers)} }

type careerDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Requirements string    `bson:"requirements"`
	Location     string    `bson:"location"`
	Type         string    `bson:"type"`
	Deadline     time.Time `bson:"deadline"`
	PDF          *imageDoc `bson:"pdf,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d careerDoc) toDomain() domain.Career {
	c := domain.Career{
		ID: d.ID, Title: d.Title, Description: d.Description, Requirements: d.Requirements,
		Location: d.Location, Type: d.Type, Deadline: d.Deadline, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if d.PDF != nil {
		c.PDF = &domain.Image{URL: d.PDF.URL, PublicID: d.PDF.PublicID}
	}
	return c
}

func careerToDoc(c *domain.Career) careerDoc {
	d := careerDoc{
		ID: c.ID, Title: c.Title, Description: c.Description, Requirements: c.Requirements,
		Location: c.Location, Type: c.Type, Deadline: utc(c.Deadline), CreatedAt: utc(c.CreatedAt), UpdatedAt: utc(c.UpdatedAt),
	}
	if c.PDF != nil {
		d.PDF = &imageDoc{URL: c.PDF.URL, PublicID: c.PDF.PublicID}
	}
	return d
}

func (s *CareerStore) List(ctx context.Context) ([]domain.Career, error) {
	cur, err := s.c.Find(ctx, bson.M{}, newest("createdAt"))
	if err != nil {
		return nil, err
	}
	var docs []careerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Career, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *CareerStore) Get(ctx context.Context, id string) (domain.Career, error) {
	var d careerDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Career{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *CareerStore) Create(ctx context.Context, c *domain.Career) error {
	_, err := s.c.InsertOne(ctx, careerToDoc(c))
	return err
}

func (s *CareerStore) Update(ctx context.Context, c *domain.Career) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": c.ID}, careerToDoc(c))
	if err != nil {
		return err
	}
	return matched(res.MatchedCount)
}

func (s *CareerStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}

type MessageStore struct{ c *mongo.Collection }

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{c: db.Collection(colMessages)}
}

type messageDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	Subject   string    `bson:"subject"`
	Message   string    `bson:"message"`
	IsRead    bool      `bson:"isRead"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d messageDoc) toDomain() domain.Message {
	return domain.Message{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, Subject: d.Subject, Message: d.Message, IsRead: d.IsRead, CreatedAt: d.CreatedAt}
}

func (s *MessageStore) List(ctx context.Context, search string) ([]domain.Message, error) {
	filter := bson.M{}
	if q := strings.TrimSpace(search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"name": contains(q)},
			bson.M{"email": contains(q)},
			bson.M{"subject": contains(q)},
		}
	}
	cur, err := s.c.Find(ctx, filter, newest("createdAt"))
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *MessageStore) Get(ctx context.Context, id string) (domain.Message, error) {
	var d messageDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Message{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *MessageStore) Create(ctx context.Context, m *domain.Message) error {
	_, err := s.c.InsertOne(ctx, messageDoc{
		ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, Subject: m.Subject,
		Message: m.Message, IsRead: m.IsRead, CreatedAt: utc(m.CreatedAt),
	})
	return err
}

func (s *MessageStore) MarkRead(ctx context.Context, id string) (domain.Message, error) {
	var d messageDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isRead": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return domain.Message{}, notFound(err)
	}
	return d.toDomain(), nil
}

func (s *MessageStore) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return matched(res.DeletedCount)
}
