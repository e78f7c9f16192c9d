package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/dirtidy/domain/model"
)

// newRegistryWith registers n started sessions on /dir1../dirN
func newRegistryWith(t *testing.T, n int) (*SessionRegistry, []*fakeWatcher) {
	t.Helper()
	env := newTestEnv(t)
	reg := NewSessionRegistry(&mockLogger{})
	watchers := make([]*fakeWatcher, 0, n)

	for i := 1; i <= n; i++ {
		w := newFakeWatcher()
		s := newWatchSession(fmt.Sprintf("id-%d", i), fmt.Sprintf("/dir%d", i), model.MustParseSelection("todos"), w, env.fs, env.pipeline, &mockLogger{})
		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, i, reg.Register(s))
		watchers = append(watchers, w)
	}
	t.Cleanup(func() { _ = reg.StopAll() })
	return reg, watchers
}

func paths(infos []model.SessionInfo) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Path)
	}
	return out
}

func TestSessionRegistry_ListIsOneBased(t *testing.T) {
	reg, _ := newRegistryWith(t, 3)

	list := reg.List()
	require.Len(t, list, 3)
	for i, info := range list {
		assert.Equal(t, i+1, info.Index)
		assert.Equal(t, model.SessionActive, info.State)
	}
	assert.Equal(t, []string{"/dir1", "/dir2", "/dir3"}, paths(list))
}

func TestSessionRegistry_StopAtShiftsLaterIndices(t *testing.T) {
	reg, watchers := newRegistryWith(t, 3)

	info, err := reg.StopAt(2)
	require.NoError(t, err)
	assert.Equal(t, "/dir2", info.Path)
	assert.Equal(t, 2, info.Index)
	assert.True(t, watchers[1].Stopped())

	list := reg.List()
	assert.Equal(t, []string{"/dir1", "/dir3"}, paths(list))
	assert.Equal(t, 2, list[1].Index)
}

func TestSessionRegistry_StopAtOutOfRange(t *testing.T) {
	reg, _ := newRegistryWith(t, 2)

	for _, index := range []int{0, 3, -1} {
		_, err := reg.StopAt(index)
		assert.ErrorIs(t, err, model.ErrSessionIndexOutOfRange, "index %d", index)
	}
	assert.Equal(t, 2, reg.Len())
}

func TestSessionRegistry_StopManyIsOrderIndependent(t *testing.T) {
	for _, indices := range [][]int{{1, 2}, {2, 1}} {
		t.Run(fmt.Sprint(indices), func(t *testing.T) {
			reg, watchers := newRegistryWith(t, 3)

			stopped, err := reg.StopMany(indices)
			require.NoError(t, err)

			// highest index first
			assert.Equal(t, []string{"/dir2", "/dir1"}, paths(stopped))
			assert.True(t, watchers[0].Stopped())
			assert.True(t, watchers[1].Stopped())
			assert.False(t, watchers[2].Stopped())
			assert.Equal(t, []string{"/dir3"}, paths(reg.List()))
		})
	}
}

func TestSessionRegistry_StopManyReportsBadIndices(t *testing.T) {
	reg, _ := newRegistryWith(t, 2)

	stopped, err := reg.StopMany([]int{5, 1, 1})
	assert.ErrorIs(t, err, model.ErrSessionIndexOutOfRange)
	assert.Equal(t, []string{"/dir1"}, paths(stopped), "valid indices still stop, duplicates once")
	assert.Equal(t, []string{"/dir2"}, paths(reg.List()))
}

func TestSessionRegistry_StopAll(t *testing.T) {
	reg, watchers := newRegistryWith(t, 3)

	require.NoError(t, reg.StopAll())
	assert.Equal(t, 0, reg.Len())
	for _, w := range watchers {
		assert.True(t, w.Stopped())
	}
}

func TestUniqueDescending(t *testing.T) {
	assert.Equal(t, []int{3, 2, 1}, uniqueDescending([]int{1, 3, 2, 3, 1}))
	assert.Empty(t, uniqueDescending(nil))
}
