package registry_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/registry"
	"github.com/slok/todo/internal/storage/memory"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

const testCreatedAt = "2026-10-19T09:30:00.000Z"

type testEnv struct {
	store *memory.Repository
	reg   *registry.Registry
}

func newTestEnv(t *testing.T, maxBytes int, slot string) testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := memory.NewRepository(memory.RepositoryConfig{MaxBytes: maxBytes})
	require.NoError(t, err)
	if slot != "" {
		require.NoError(t, store.PutSlot(ctx, codec.DefaultSlotKey, []byte(slot)))
	}

	c, err := codec.NewCodec(codec.CodecConfig{
		Store:   store,
		TimeNow: func() time.Time { return testNow },
	})
	require.NoError(t, err)

	reg, err := registry.NewRegistry(registry.RegistryConfig{
		Persister: c,
		Logger:    log.Noop,
		TimeNow:   func() time.Time { return testNow },
	})
	require.NoError(t, err)

	_, err = reg.Load(ctx)
	require.NoError(t, err)

	return testEnv{store: store, reg: reg}
}

func (e testEnv) stored(t *testing.T) codec.Envelope {
	t.Helper()
	data, err := e.store.GetSlot(context.Background(), codec.DefaultSlotKey)
	require.NoError(t, err)

	var env codec.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestRegistryOperations(t *testing.T) {
	tests := map[string]struct {
		slot       string
		actions    func(ctx context.Context, t *testing.T, reg *registry.Registry)
		expTasks   []model.Task
		expCounter int64
	}{
		"Adding tasks should assign incremental ids.": {
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				t1, err := reg.Add(ctx, "buy milk")
				require.NoError(t, err)
				assert.Equal(t, int64(1), t1.ID)

				t2, err := reg.Add(ctx, "  call mum ")
				require.NoError(t, err)
				assert.Equal(t, int64(2), t2.ID)
			},
			expTasks: []model.Task{
				{ID: 1, Text: "buy milk", CreatedAt: testCreatedAt},
				{ID: 2, Text: "call mum", CreatedAt: testCreatedAt},
			},
			expCounter: 3,
		},

		"Adding an empty task should fail without changes.": {
			slot: `{"todos":[{"id":1,"text":"a"}],"counter":2}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				_, err := reg.Add(ctx, "   ")
				assert.ErrorIs(t, err, model.ErrValidation)
			},
			expTasks:   []model.Task{{ID: 1, Text: "a"}},
			expCounter: 2,
		},

		"Toggling a task should flip its completion.": {
			slot: `{"todos":[{"id":1,"text":"a"},{"id":2,"text":"b"}],"counter":3}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				task, ok, err := reg.Toggle(ctx, 2)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.True(t, task.Completed)

				_, _, err = reg.Toggle(ctx, 1)
				require.NoError(t, err)
				_, _, err = reg.Toggle(ctx, 1)
				require.NoError(t, err)
			},
			expTasks:   []model.Task{{ID: 1, Text: "a"}, {ID: 2, Text: "b", Completed: true}},
			expCounter: 3,
		},

		"Toggling an unknown task should be a no-op.": {
			slot: `{"todos":[{"id":1,"text":"a"}],"counter":2}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				_, ok, err := reg.Toggle(ctx, 99)
				require.NoError(t, err)
				assert.False(t, ok)
			},
			expTasks:   []model.Task{{ID: 1, Text: "a"}},
			expCounter: 2,
		},

		"Deleting a task should remove it keeping the order.": {
			slot: `{"todos":[{"id":1,"text":"a"},{"id":2,"text":"b"},{"id":3,"text":"c"}],"counter":4}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				task, ok, err := reg.Delete(ctx, 2)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "b", task.Text)
			},
			expTasks:   []model.Task{{ID: 1, Text: "a"}, {ID: 3, Text: "c"}},
			expCounter: 4,
		},

		"Deleting an unknown task should be a no-op.": {
			slot: `{"todos":[{"id":1,"text":"a"}],"counter":2}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				_, ok, err := reg.Delete(ctx, 7)
				require.NoError(t, err)
				assert.False(t, ok)
			},
			expTasks:   []model.Task{{ID: 1, Text: "a"}},
			expCounter: 2,
		},

		"Clearing should keep the counter so ids are not reused.": {
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				for _, text := range []string{"a", "b", "c"} {
					_, err := reg.Add(ctx, text)
					require.NoError(t, err)
				}
				n, err := reg.ClearAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, 3, n)

				task, err := reg.Add(ctx, "d")
				require.NoError(t, err)
				assert.Equal(t, int64(4), task.ID)
			},
			expTasks:   []model.Task{{ID: 4, Text: "d", CreatedAt: testCreatedAt}},
			expCounter: 5,
		},

		"Replacing should install the tasks and recalculate the counter.": {
			slot: `{"todos":[{"id":1,"text":"a"}],"counter":50}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				err := reg.ReplaceAll(ctx, []model.Task{{ID: 7, Text: "x"}, {ID: 3, Text: "y", Completed: true}})
				require.NoError(t, err)
			},
			expTasks:   []model.Task{{ID: 7, Text: "x"}, {ID: 3, Text: "y", Completed: true}},
			expCounter: 8,
		},

		"Replacing with nothing should reset the counter.": {
			slot: `{"todos":[{"id":1,"text":"a"}],"counter":50}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				require.NoError(t, reg.ReplaceAll(ctx, nil))
			},
			expTasks:   []model.Task{},
			expCounter: 1,
		},

		"Replacing with duplicated ids should keep ids unique.": {
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				err := reg.ReplaceAll(ctx, []model.Task{{ID: 2, Text: "x"}, {ID: 2, Text: "y"}, {ID: 0, Text: "z"}})
				require.NoError(t, err)
			},
			expTasks:   []model.Task{{ID: 2, Text: "x"}, {ID: 3, Text: "y"}, {ID: 4, Text: "z"}},
			expCounter: 5,
		},

		"Merging should renumber the incoming tasks after the highest id.": {
			slot: `{"todos":[{"id":1,"text":"a"},{"id":4,"text":"b"}],"counter":5}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				merged, err := reg.MergeAppend(ctx, []model.Task{{ID: 1, Text: "x"}, {ID: 4, Text: "y", Completed: true}, {ID: 100, Text: "z"}})
				require.NoError(t, err)
				assert.Len(t, merged, 3)
			},
			expTasks: []model.Task{
				{ID: 1, Text: "a"},
				{ID: 4, Text: "b"},
				{ID: 5, Text: "x"},
				{ID: 6, Text: "y", Completed: true},
				{ID: 7, Text: "z"},
			},
			expCounter: 8,
		},

		"Merging into an empty collection should start at 1.": {
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				_, err := reg.MergeAppend(ctx, []model.Task{{ID: 9, Text: "x"}})
				require.NoError(t, err)
			},
			expTasks:   []model.Task{{ID: 1, Text: "x"}},
			expCounter: 2,
		},

		"Merging after a clear should not lower the counter.": {
			slot: `{"todos":[],"counter":20}`,
			actions: func(ctx context.Context, t *testing.T, reg *registry.Registry) {
				_, err := reg.MergeAppend(ctx, []model.Task{{ID: 9, Text: "x"}})
				require.NoError(t, err)
			},
			expTasks:   []model.Task{{ID: 1, Text: "x"}},
			expCounter: 20,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			env := newTestEnv(t, 0, test.slot)
			test.actions(ctx, t, env.reg)

			assert.Equal(test.expTasks, env.reg.Tasks())
			assert.Equal(test.expCounter, env.reg.Counter())

			// Persisted state should always match the in-memory state.
			if test.slot != "" || len(test.expTasks) > 0 {
				stored := env.stored(t)
				assert.Equal(test.expTasks, stored.Todos)
				assert.Equal(test.expCounter, stored.Counter)
			}
		})
	}
}

func TestRegistryToggleScenario(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	env := newTestEnv(t, 0, "")

	task, err := env.reg.Add(ctx, "buy milk")
	require.NoError(err)
	_, _, err = env.reg.Toggle(ctx, task.ID)
	require.NoError(err)

	stats := env.reg.Stats()
	assert.Equal(0, stats.Remaining)
	assert.Equal(1, stats.Total)

	got, err := env.reg.Get(task.ID)
	require.NoError(err)
	assert.True(got.Completed)

	_, err = env.reg.Get(task.ID + 1)
	assert.ErrorIs(err, model.ErrNotFound)
}

func TestRegistryUniqueMonotonicIDs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	env := newTestEnv(t, 0, "")

	seen := map[int64]bool{}
	var last int64
	for i := 0; i < 50; i++ {
		task, err := env.reg.Add(ctx, fmt.Sprintf("task %d", i))
		require.NoError(err)
		assert.False(seen[task.ID])
		assert.Greater(task.ID, last)
		seen[task.ID] = true
		last = task.ID

		if i%10 == 9 {
			_, err := env.reg.ClearAll(ctx)
			require.NoError(err)
		}
		if i%7 == 0 {
			_, _, err := env.reg.Delete(ctx, task.ID)
			require.NoError(err)
		}
	}

	assert.Greater(env.reg.Counter(), model.MaxID(env.reg.Tasks()))
}

func TestRegistryPersistFailureKeepsMemory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	env := newTestEnv(t, 200, "")

	task, err := env.reg.Add(ctx, "a")
	require.NoError(err)

	// The quota is too small for this one.
	big, err := env.reg.Add(ctx, "this is a very long task text that will not fit in the small quota of the store")
	assert.ErrorIs(err, model.ErrStorageWrite)
	assert.Equal(int64(2), big.ID)
	assert.Len(env.reg.Tasks(), 2)
	assert.Equal(int64(3), env.reg.Counter())

	stored := env.stored(t)
	assert.Equal([]model.Task{task}, stored.Todos)

	// Removing the big one fits again and durability is recovered.
	_, _, err = env.reg.Delete(ctx, big.ID)
	require.NoError(err)
	stored = env.stored(t)
	assert.Equal([]model.Task{task}, stored.Todos)
	assert.Equal(int64(3), stored.Counter)
}

func TestRegistryLoad(t *testing.T) {
	tests := map[string]struct {
		slot       string
		expTasks   []model.Task
		expCounter int64
		expErr     error
	}{
		"An absent slot should load an empty registry.": {
			expTasks:   []model.Task{},
			expCounter: 1,
		},

		"An envelope should load its tasks and counter.": {
			slot:       `{"todos":[{"id":5,"text":"x","completed":false}],"counter":6,"lastSaved":"2026-10-18T10:00:00.000Z"}`,
			expTasks:   []model.Task{{ID: 5, Text: "x"}},
			expCounter: 6,
		},

		"A legacy slot should load.": {
			slot:       `[{"id":2,"text":"x"}]`,
			expTasks:   []model.Task{{ID: 2, Text: "x"}},
			expCounter: 3,
		},

		"Duplicated persisted ids should be made unique.": {
			slot:       `{"todos":[{"id":1,"text":"x"},{"id":1,"text":"y"}],"counter":2}`,
			expTasks:   []model.Task{{ID: 1, Text: "x"}, {ID: 2, Text: "y"}},
			expCounter: 3,
		},

		"Corrupt data should reset the registry and report it.": {
			slot:       `{{{`,
			expTasks:   []model.Task{},
			expCounter: 1,
			expErr:     model.ErrStorageCorrupt,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			store, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(err)
			if test.slot != "" {
				require.NoError(store.PutSlot(ctx, codec.DefaultSlotKey, []byte(test.slot)))
			}
			c, err := codec.NewCodec(codec.CodecConfig{Store: store})
			require.NoError(err)

			reg, err := registry.NewRegistry(registry.RegistryConfig{Persister: c})
			require.NoError(err)

			_, err = reg.Load(ctx)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}

			assert.Equal(test.expTasks, reg.Tasks())
			assert.Equal(test.expCounter, reg.Counter())
		})
	}
}

func TestNewRegistryRequiresPersister(t *testing.T) {
	_, err := registry.NewRegistry(registry.RegistryConfig{})
	assert.Error(t, err)
}
