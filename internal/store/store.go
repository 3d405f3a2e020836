package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names of the persisted layout.
const (
	CollectionUsers    = "Users"
	CollectionTaskList = "TaskList"
	CollectionToDo     = "ToDo"
	CollectionCourses  = "Courses"
)

// ErrNotFound reports a point lookup that matched no document. Callers treat
// it as an absent value, not a failure.
var ErrNotFound = errors.New("store: document not found")

// Store is the capability surface over the document store: point lookups,
// filtered scans and atomic single-document updates, each scoped to a named
// collection. Updates and deletes that match no document are not errors.
type Store interface {
	// FindOne decodes the first document matching filter into out, or
	// returns ErrNotFound.
	FindOne(ctx context.Context, collection string, filter bson.M, out any) error

	// FindMany decodes every document matching filter into out, which must
	// be a pointer to a slice.
	FindMany(ctx context.Context, collection string, filter bson.M, out any) error

	// Insert stores doc and returns the store-assigned identifier.
	Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error)

	// UpdateFields sets the given fields on the document with the given id.
	UpdateFields(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error

	// PushToArrayUnique appends value to an array field unless it is already
	// present. The append is atomic at the document level.
	PushToArrayUnique(ctx context.Context, collection string, id primitive.ObjectID, field string, value any) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, collection string, id primitive.ObjectID) error
}

type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps a mongo database handle in the Store capability.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one in %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) FindMany(ctx context.Context, collection string, filter bson.M, out any) error {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode results from %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	result, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", collection, err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: unexpected id type %T", collection, result.InsertedID)
	}
	return id, nil
}

func (s *mongoStore) UpdateFields(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error {
	_, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update in %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) PushToArrayUnique(ctx context.Context, collection string, id primitive.ObjectID, field string, value any) error {
	// $addToSet keeps the append itself idempotent even when two concurrent
	// callers both pass the member check first.
	_, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("push to %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, collection string, id primitive.ObjectID) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}
