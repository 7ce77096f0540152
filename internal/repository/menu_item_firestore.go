package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/shinyyama/cafe-menu/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreMenuItemRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreMenuItemRepository(client *firestore.Client, collection string) MenuItemRepository {
	return &firestoreMenuItemRepository{client: client, collection: collection}
}

func (r *firestoreMenuItemRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *firestoreMenuItemRepository) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	ref, _, err := r.col().Add(ctx, item)
	if err != nil {
		return "", err
	}
	item.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreMenuItemRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeSnapshot(snap)
}

// Update fails with ErrNotFound when the document does not exist, matching
// Firestore's update semantics.
func (r *firestoreMenuItemRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	updates := toFirestoreUpdates(patch.Fields())
	if len(updates) == 0 {
		return nil
	}
	if _, err := r.col().Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("update %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *firestoreMenuItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *firestoreMenuItemRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	iter := r.col().
		OrderBy("category", firestore.Asc).
		OrderBy("name", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	items := make([]model.MenuItem, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		item, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}

func toFirestoreUpdates(fields map[string]interface{}) []firestore.Update {
	paths := make([]string, 0, len(fields))
	for k := range fields {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	updates := make([]firestore.Update, 0, len(paths))
	for _, p := range paths {
		updates = append(updates, firestore.Update{Path: p, Value: fields[p]})
	}
	return updates
}
