package graph

import (
	"context"
	"reflect"
	"regexp"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tomlord1122/tasklist-backend/internal/store"
)

// fakeStore is an in-memory implementation of the store gateway. It
// interprets the filter vocabulary the resolvers use: _id and scalar
// equality, array membership, $in and unanchored regex matching. It also
// counts write calls so tests can assert that rejected operations never
// touch the store.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]bson.M
	writes      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string][]bson.M)}
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.collections[collection] {
		if matchFilter(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) FindMany(ctx context.Context, collection string, filter bson.M, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []bson.M
	for _, doc := range f.collections[collection] {
		if matchFilter(doc, filter) {
			matched = append(matched, doc)
		}
	}

	slice := reflect.ValueOf(out).Elem()
	slice.Set(reflect.MakeSlice(slice.Type(), 0, len(matched)))
	for _, doc := range matched {
		elem := reflect.New(slice.Type().Elem())
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (f *fakeStore) Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++

	raw, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	var stored bson.M
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return primitive.NilObjectID, err
	}
	id := primitive.NewObjectID()
	stored["_id"] = id
	f.collections[collection] = append(f.collections[collection], stored)
	return id, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++

	for _, doc := range f.collections[collection] {
		if doc["_id"] == id {
			for k, v := range fields {
				doc[k] = v
			}
			return nil
		}
	}
	return nil // zero matching documents is not an error
}

func (f *fakeStore) PushToArrayUnique(ctx context.Context, collection string, id primitive.ObjectID, field string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++

	for _, doc := range f.collections[collection] {
		if doc["_id"] != id {
			continue
		}
		arr, _ := doc[field].(primitive.A)
		for _, existing := range arr {
			if reflect.DeepEqual(existing, value) {
				return nil
			}
		}
		doc[field] = append(arr, value)
		return nil
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, collection string, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++

	docs := f.collections[collection]
	for i, doc := range docs {
		if doc["_id"] == id {
			f.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func decodeDoc(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matchFilter(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		got := doc[key]
		switch w := want.(type) {
		case primitive.Regex:
			s, ok := got.(string)
			if !ok {
				return false
			}
			re, err := regexp.Compile(w.Pattern)
			if err != nil || !re.MatchString(s) {
				return false
			}
		case bson.M:
			in, ok := w["$in"]
			if !ok || !sliceContains(in, got) {
				return false
			}
		default:
			if !valueMatches(got, want) {
				return false
			}
		}
	}
	return true
}

// valueMatches follows the store's equality rule for array fields: a scalar
// filter value matches a document array containing it.
func valueMatches(got, want any) bool {
	if arr, ok := got.(primitive.A); ok {
		for _, elem := range arr {
			if reflect.DeepEqual(elem, want) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(got, want)
}

func sliceContains(slice, value any) bool {
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if reflect.DeepEqual(rv.Index(i).Interface(), value) {
			return true
		}
	}
	return false
}
