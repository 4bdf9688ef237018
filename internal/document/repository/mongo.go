package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docuvault/docuvault/internal/document"
)

// MongoRepo implements Repository backed by a MongoDB collection. Integer ids
// come from a counters collection ($inc on a per-collection sequence), so ids
// are positive, monotonic and never reused even after deletes.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	col := db.Collection("documents")
	// unique index on "id"; secondary indexes for the listing filters
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "access", Value: 1}, {Key: "ownerRoleId", Value: 1}},
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return &MongoRepo{col: col, counters: db.Collection("counters")}
}

// nextID atomically increments and returns the documents sequence.
func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "documents"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("documents sequence: %w", err)
	}
	return out.Seq, nil
}

func (m *MongoRepo) Create(ctx context.Context, doc *document.Document) (int64, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return 0, err
	}
	return doc.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Update(ctx context.Context, id int64, upd document.Update) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Access != nil {
		set["access"] = *upd.Access
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) ListPublic(ctx context.Context, page document.Page) (*document.PageResult, error) {
	return m.list(ctx, bson.M{"access": document.AccessPublic}, page)
}

func (m *MongoRepo) ListByRole(ctx context.Context, roleID int64, page document.Page) (*document.PageResult, error) {
	return m.list(ctx, bson.M{"access": document.AccessRole, "ownerRoleId": roleID}, page)
}

func (m *MongoRepo) ListOwned(ctx context.Context, userID int64, page document.Page) (*document.PageResult, error) {
	return m.list(ctx, bson.M{"userId": userID}, page)
}

func (m *MongoRepo) ListAll(ctx context.Context, page document.Page) (*document.PageResult, error) {
	return m.list(ctx, bson.M{}, page)
}

func (m *MongoRepo) Search(ctx context.Context, query string, vis *Visibility) ([]*document.Document, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}},
		bson.M{"access": query},
	}}
	if vis != nil {
		filter = bson.M{"$and": bson.A{filter, bson.M{"$or": bson.A{
			bson.M{"access": document.AccessPublic},
			bson.M{"userId": vis.UserID},
			bson.M{"access": document.AccessRole, "ownerRoleId": vis.RoleID},
		}}}}
	}
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(sortSpec()))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) list(ctx context.Context, filter bson.M, page document.Page) (*document.PageResult, error) {
	page = page.Normalize()
	count, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(sortSpec()).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	rows := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		rows = append(rows, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return &document.PageResult{Rows: rows, Count: count}, nil
}

// createdAt descending, id descending as tiebreaker for stable pages
func sortSpec() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}
}
