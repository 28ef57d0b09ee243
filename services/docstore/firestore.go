package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrExists is returned by Create when the document ID is already taken.
var ErrExists = errors.New("document already exists")

type firestoreStore struct {
	db *firestore.Client
}

var _ Store = (*firestoreStore)(nil)

// NewFirestore wraps a Firestore client in the Store contract.
func NewFirestore(db *firestore.Client) Store {
	return &firestoreStore{db: db}
}

func (s *firestoreStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.db.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return snap.Data(), nil
}

func (s *firestoreStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	docs, err := s.db.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	results := make([]Document, 0, len(docs))
	for _, doc := range docs {
		results = append(results, doc.Data())
	}
	return results, nil
}

func (s *firestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	q := s.db.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Path, f.Op, f.Value)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	results := make([]Document, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		results = append(results, doc.Data())
	}
	return results, nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, data Document, merge bool) error {
	ref := s.db.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Update(ctx context.Context, collection, id string, fields Document) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := s.db.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Create(ctx context.Context, collection, id string, data Document) error {
	_, err := s.db.Collection(collection).Doc(id).Create(ctx, data)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrExists
		}
		return fmt.Errorf("failed to create %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	ref := s.db.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, data); err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}
