package usecase

import (
	"context"
	"errors"
	"testing"

	"declutter_backend/internal/feature/entries/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSynchronizer_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		ids       []uint
		wantIDs   []uint
		wantCalls int
	}{
		{name: "nil", ids: nil, wantIDs: nil, wantCalls: 0},
		{name: "only zero", ids: []uint{0, 0}, wantIDs: nil, wantCalls: 0},
		{name: "duplicates collapse", ids: []uint{2, 2, 4}, wantIDs: []uint{2, 4}, wantCalls: 1},
		{name: "unknown dropped", ids: []uint{1, 42}, wantIDs: []uint{1}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []uint
			repo := &mockTagRepository{FindByIDsFunc: func(_ context.Context, ids []uint) ([]entity.Tag, error) {
				got = ids
				return (&mockTagRepository{}).FindByIDs(context.Background(), ids)
			}}
			s := NewTagSynchronizer(repo)

			tags, err := s.Resolve(context.Background(), tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, repo.calls)

			var ids []uint
			for _, tg := range tags {
				ids = append(ids, tg.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			if tt.wantCalls > 0 {
				assert.NotContains(t, got, uint(0))
			}
		})
	}
}

func TestTagSynchronizer_Sync(t *testing.T) {
	s := NewTagSynchronizer(&mockTagRepository{})
	e := &entity.Entry{Tags: []entity.Tag{entity.NewTag(5, "Health")}}

	require.NoError(t, s.Sync(context.Background(), e, []uint{1, 2}))
	assert.Equal(t, []uint{1, 2}, e.TagIDs())

	require.NoError(t, s.Sync(context.Background(), e, nil))
	assert.Empty(t, e.Tags)
}

func TestTagSynchronizer_LookupError(t *testing.T) {
	boom := errors.New("boom")
	s := NewTagSynchronizer(&mockTagRepository{FindByIDsFunc: func(context.Context, []uint) ([]entity.Tag, error) {
		return nil, boom
	}})
	e := &entity.Entry{Tags: []entity.Tag{entity.NewTag(1, "Personal")}}

	err := s.Sync(context.Background(), e, []uint{3})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []uint{1}, e.TagIDs())
}
