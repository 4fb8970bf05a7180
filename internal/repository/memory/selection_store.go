package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/pkg/selection"

	"github.com/patrickmn/go-cache"
)

// SelectionStore keeps view selections in process. Entries expire after
// ttl without use.
type SelectionStore struct {
	cache *cache.Cache
}

func NewSelectionStore(ttl time.Duration) *SelectionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SelectionStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

var _ contract.SelectionStore = (*SelectionStore)(nil)

func (s *SelectionStore) Get(_ context.Context, key string) (*contract.ViewSelection, bool, error) {
	if x, found := s.cache.Get(key); found {
		view := x.(contract.ViewSelection)
		return &view, true, nil
	}
	return nil, false, nil
}

// Save stores a copy; the snapshot holds slices the caller may keep using.
func (s *SelectionStore) Save(_ context.Context, key string, view contract.ViewSelection) error {
	view.Snapshot.IDs = append([]selection.ItemID(nil), view.Snapshot.IDs...)
	view.Snapshot.Window.Rows = append([]selection.ItemID(nil), view.Snapshot.Window.Rows...)
	s.cache.Set(key, view, cache.DefaultExpiration)
	return nil
}

func (s *SelectionStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *SelectionStore) DeletePrefix(_ context.Context, prefix string, keep ...string) ([]string, error) {
	var deleted []string
	for key := range s.cache.Items() {
		if !strings.HasPrefix(key, prefix) || slices.Contains(keep, key) {
			continue
		}
		s.cache.Delete(key)
		deleted = append(deleted, key)
	}
	return deleted, nil
}
