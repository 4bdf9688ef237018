package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docuvault/docuvault/internal/models"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("email or username already taken")
)

// Update is a partial user mutation; nil fields are untouched.
type Update struct {
	Email        *string
	UserName     *string
	FullName     *string
	PasswordHash *string
	RoleID       *int64
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin matches email or userName, the two credentials login accepts.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Search(ctx context.Context, query string) ([]*models.User, error)
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// NewMongoUserRepository creates a repository over db's users collection,
// enforcing unique email and userName.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	col := db.Collection("users")
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userName", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	return &MongoUserRepository{col: col, counters: db.Collection("counters")}
}

func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "users"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("users sequence: %w", err)
	}
	return out.Seq, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return u.ID, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": login}, bson.M{"userName": login}}}
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, 0, err
		}
		out = append(out, &u)
	}
	return out, count, cur.Err()
}

func (r *MongoUserRepository) Search(ctx context.Context, query string) ([]*models.User, error) {
	re := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
	cur, err := r.col.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"fullName": re},
		bson.M{"userName": re},
	}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *MongoUserRepository) Update(ctx context.Context, id int64, upd Update) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.UserName != nil {
		set["userName"] = *upd.UserName
	}
	if upd.FullName != nil {
		set["fullName"] = *upd.FullName
	}
	if upd.PasswordHash != nil {
		set["passwordHash"] = *upd.PasswordHash
	}
	if upd.RoleID != nil {
		set["roleId"] = *upd.RoleID
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// matchesQuery mirrors the repository search semantics for the memory repo.
func matchesQuery(u *models.User, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(u.FullName), q) ||
		strings.Contains(strings.ToLower(u.UserName), q)
}
