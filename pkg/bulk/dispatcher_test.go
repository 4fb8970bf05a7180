package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"datahub-portal-be/pkg/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scope string

func (s scope) Key() string { return string(s) }

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, req Request) (Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(Result), args.Error(1)
}

func stateOf(mode selection.Mode, n int) selection.State {
	ids := make(map[selection.ItemID]struct{}, n)
	for i := 0; i < n; i++ {
		ids[fmt.Sprintf("id-%05d", i)] = struct{}{}
	}
	return selection.State{Mode: mode, IDs: ids}
}

func TestBuildInclusion(t *testing.T) {
	d := NewDispatcher(Config{})

	req, err := d.Build(stateOf(selection.ModeInclusion, 3), scope("s"))
	require.NoError(t, err)
	assert.Equal(t, KindInclude, req.Kind)
	assert.False(t, req.ApplyToAllMatchingFilter)
	assert.Equal(t, []selection.ItemID{"id-00000", "id-00001", "id-00002"}, req.IncludeIDs)
	assert.Empty(t, req.ExcludeIDs)
}

func TestBuildExclusion(t *testing.T) {
	d := NewDispatcher(Config{})

	req, err := d.Build(stateOf(selection.ModeExclusion, 0), scope("status=New"))
	require.NoError(t, err)
	assert.Equal(t, KindExcludeFromScope, req.Kind)
	assert.True(t, req.ApplyToAllMatchingFilter)
	assert.Empty(t, req.ExcludeIDs)
	assert.Equal(t, "status=New", req.Scope.Key())
}

func TestBuildNone(t *testing.T) {
	_, err := NewDispatcher(Config{}).Build(stateOf(selection.ModeNone, 0), scope("s"))
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestDefaultLimit(t *testing.T) {
	assert.Equal(t, 2000, NewDispatcher(Config{}).Limit())
}

func TestDispatchRejectsOversizedSelection(t *testing.T) {
	for _, mode := range []selection.Mode{selection.ModeInclusion, selection.ModeExclusion} {
		t.Run(string(mode), func(t *testing.T) {
			exec := new(mockExecutor)
			d := NewDispatcher(Config{MaxIDsLimit: 2000})

			_, err := d.Dispatch(context.Background(), stateOf(mode, 2001), scope("s"), exec)

			var tooLarge *SelectionTooLargeError
			require.True(t, errors.As(err, &tooLarge))
			assert.Equal(t, 2001, tooLarge.Size)
			assert.Equal(t, 2000, tooLarge.Limit)
			exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatchAtLimitCallsExecutor(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(r Request) bool {
		return r.Kind == KindInclude && len(r.IncludeIDs) == 2000
	})).Return(Result{Affected: 2000}, nil)

	res, err := NewDispatcher(Config{}).Dispatch(context.Background(), stateOf(selection.ModeInclusion, 2000), scope("s"), exec)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), res.Affected)
	exec.AssertExpectations(t)
}

func TestDispatchWrapsBackendFailure(t *testing.T) {
	boom := errors.New("connection reset")
	exec := ExecutorFunc(func(ctx context.Context, req Request) (Result, error) {
		return Result{}, boom
	})

	_, err := NewDispatcher(Config{}).Dispatch(context.Background(), stateOf(selection.ModeExclusion, 1), scope("s"), exec)
	assert.ErrorIs(t, err, ErrBackendFailure)
	assert.ErrorIs(t, err, boom)
}
