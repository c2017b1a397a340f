package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreClient adapts a Firestore connection to the Client interface.
// This is the production backend; the store treats it exactly like the others.
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient wraps an initialized Firestore client.
func NewFirestoreClient(client *firestore.Client) *FirestoreClient {
	return &FirestoreClient{client: client}
}

func (f *FirestoreClient) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	return Document(snap.Data()), nil
}

func (f *FirestoreClient) Set(ctx context.Context, collection, id string, doc Document) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, map[string]any(doc))
	if err != nil {
		return fmt.Errorf("firestore set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) Merge(ctx context.Context, collection, id string, fields Document) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, map[string]any(fields), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) Update(ctx context.Context, collection, id string, fields Document) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := f.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) ArrayUnion(ctx context.Context, collection, id, field string, values ...string) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, map[string]any{
		field: firestore.ArrayUnion(toAny(values)...),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore array union %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (f *FirestoreClient) ArrayRemove(ctx context.Context, collection, id, field string, values ...string) error {
	_, err := f.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayRemove(toAny(values)...)},
	})
	if err != nil {
		// Removing from a missing document is a no-op.
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore array remove %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (f *FirestoreClient) Add(ctx context.Context, collection string, doc Document) (string, error) {
	ref, _, err := f.client.Collection(collection).Add(ctx, map[string]any(doc))
	if err != nil {
		return "", fmt.Errorf("firestore add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (f *FirestoreClient) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	iter := f.buildQuery(collection, q).Documents(ctx)
	defer iter.Stop()

	var out []Snapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s: %w", collection, err)
		}
		out = append(out, Snapshot{ID: snap.Ref.ID, Data: Document(snap.Data())})
	}
	return out, nil
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(collection, id string) (Document, error) {
	snap, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore tx get %s/%s: %w", collection, id, err)
	}
	return Document(snap.Data()), nil
}

func (t *firestoreTx) Set(collection, id string, doc Document) error {
	return t.tx.Set(t.client.Collection(collection).Doc(id), map[string]any(doc))
}

func (t *firestoreTx) Delete(collection, id string) error {
	return t.tx.Delete(t.client.Collection(collection).Doc(id))
}

func (f *FirestoreClient) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&firestoreTx{client: f.client, tx: tx})
	})
}

func (f *FirestoreClient) Watch(ctx context.Context, collection string, q Query, fn func([]Snapshot)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snaps := f.buildQuery(collection, q).Snapshots(watchCtx)

	go func() {
		defer snaps.Stop()
		for {
			qs, err := snaps.Next()
			if err != nil {
				return
			}
			var out []Snapshot
			docs := qs.Documents
			for {
				snap, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				out = append(out, Snapshot{ID: snap.Ref.ID, Data: Document(snap.Data())})
			}
			fn(out)
		}
	}()
	return cancel, nil
}

func (f *FirestoreClient) Close() error {
	return f.client.Close()
}

func (f *FirestoreClient) buildQuery(collection string, q Query) firestore.Query {
	fq := f.client.Collection(collection).Query
	for _, filter := range q.Filters {
		fq = fq.Where(filter.Field, "==", filter.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
