package reconcile_test

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
	"github.com/slok/todo/internal/registry"
	"github.com/slok/todo/internal/storage/memory"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) ReplaceAll(ctx context.Context, tasks []model.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *mockRegistry) MergeAppend(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	args := m.Called(ctx, tasks)
	return tasks, args.Error(0)
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		data     string
		format   reconcile.Format
		expTasks []model.Task
		expErr   error
	}{
		"Only structurally valid entries should survive.": {
			data:     `[{"id":1,"text":"a"}, {"bad":1}, {"id":"x","text":"b"}]`,
			format:   reconcile.FormatJSON,
			expTasks: []model.Task{{ID: 1, Text: "a"}},
		},

		"Optional fields should be kept.": {
			data:     `[{"id":3,"text":"a","completed":true,"createdAt":"2026-10-18T10:00:00.000Z"}]`,
			format:   reconcile.FormatJSON,
			expTasks: []model.Task{{ID: 3, Text: "a", Completed: true, CreatedAt: "2026-10-18T10:00:00.000Z"}},
		},

		"Empty text should be accepted on import.": {
			data:     `[{"id":3,"text":""}]`,
			format:   reconcile.FormatJSON,
			expTasks: []model.Task{{ID: 3, Text: ""}},
		},

		"Unset format should default to JSON.": {
			data:     `[{"id":1,"text":"a"}]`,
			expTasks: []model.Task{{ID: 1, Text: "a"}},
		},

		"YAML lists should be parsed.": {
			data:     "- id: 1\n  text: a\n  completed: true\n- id: x\n  text: b\n- text: c\n",
			format:   reconcile.FormatYAML,
			expTasks: []model.Task{{ID: 1, Text: "a", Completed: true}},
		},

		"YAML should accept JSON content.": {
			data:     `[{"id": 2, "text": "a"}]`,
			format:   reconcile.FormatYAML,
			expTasks: []model.Task{{ID: 2, Text: "a"}},
		},

		"Zero valid entries should fail as empty.": {
			data:   `[{"bad":1}, {"id":"x","text":"b"}]`,
			format: reconcile.FormatJSON,
			expErr: model.ErrImportEmpty,
		},

		"An empty list should fail as empty.": {
			data:   `[]`,
			format: reconcile.FormatJSON,
			expErr: model.ErrImportEmpty,
		},

		"Unparseable content should fail as format error.": {
			data:   `[{"id":1,`,
			format: reconcile.FormatJSON,
			expErr: model.ErrImportFormat,
		},

		"The store envelope should fail as format error.": {
			data:   `{"todos":[{"id":1,"text":"a"}],"counter":2}`,
			format: reconcile.FormatJSON,
			expErr: model.ErrImportFormat,
		},

		"A YAML mapping should fail as format error.": {
			data:   "id: 1\ntext: a\n",
			format: reconcile.FormatYAML,
			expErr: model.ErrImportFormat,
		},

		"Invalid YAML should fail as format error.": {
			data:   "- id: 1\n text: [",
			format: reconcile.FormatYAML,
			expErr: model.ErrImportFormat,
		},

		"Unknown formats should fail.": {
			data:   `[]`,
			format: reconcile.Format("xml"),
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			tasks, err := reconcile.Parse([]byte(test.data), test.format)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expTasks, tasks)
			}
		})
	}
}

func TestReconcilerImport(t *testing.T) {
	tests := map[string]struct {
		data      string
		strategy  reconcile.Strategy
		mock      func(m *mockRegistry)
		expResult reconcile.Result
		expErr    error
	}{
		"Replace strategy should replace all the tasks.": {
			data:     `[{"id":1,"text":"a"},{"nope":1}]`,
			strategy: reconcile.StrategyReplace,
			mock: func(m *mockRegistry) {
				m.On("ReplaceAll", mock.Anything, []model.Task{{ID: 1, Text: "a"}}).Once().Return(nil)
			},
			expResult: reconcile.Result{Imported: 1, Skipped: 1, Strategy: reconcile.StrategyReplace},
		},

		"Merge strategy should merge the tasks.": {
			data:     `[{"id":1,"text":"a"},{"id":2,"text":"b"}]`,
			strategy: reconcile.StrategyMerge,
			mock: func(m *mockRegistry) {
				m.On("MergeAppend", mock.Anything, []model.Task{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}).Once().Return(nil)
			},
			expResult: reconcile.Result{Imported: 2, Strategy: reconcile.StrategyMerge},
		},

		"Invalid content should not touch the registry.": {
			data:     `nope`,
			strategy: reconcile.StrategyReplace,
			mock:     func(m *mockRegistry) {},
			expErr:   model.ErrImportFormat,
		},

		"Empty content should not touch the registry.": {
			data:     `[{"nope":1}]`,
			strategy: reconcile.StrategyMerge,
			mock:     func(m *mockRegistry) {},
			expErr:   model.ErrImportEmpty,
		},

		"Unknown strategies should fail.": {
			data:     `[{"id":1,"text":"a"}]`,
			strategy: reconcile.Strategy("upsert"),
			mock:     func(m *mockRegistry) {},
			expErr:   model.ErrNotValid,
		},

		"Persist errors should be returned with the result.": {
			data:     `[{"id":1,"text":"a"}]`,
			strategy: reconcile.StrategyReplace,
			mock: func(m *mockRegistry) {
				m.On("ReplaceAll", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("quota: %w", model.ErrStorageWrite))
			},
			expResult: reconcile.Result{Imported: 1, Strategy: reconcile.StrategyReplace},
			expErr:    model.ErrStorageWrite,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mReg := &mockRegistry{}
			test.mock(mReg)

			r, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{Registry: mReg, Logger: log.Noop})
			require.NoError(err)

			res, err := r.Import(context.Background(), []byte(test.data), reconcile.FormatJSON, test.strategy)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expResult, res)
			mReg.AssertExpectations(t)
		})
	}
}

func TestReconcilerImportFile(t *testing.T) {
	fsys := fstest.MapFS{
		"todos.json": {Data: []byte(`[{"id":1,"text":"a"}]`)},
		"todos.yml":  {Data: []byte("- id: 1\n  text: a\n")},
	}

	tests := map[string]struct {
		path   string
		expErr bool
	}{
		"JSON files should be imported.": {path: "todos.json"},
		"YAML files should be imported.": {path: "todos.yml"},
		"Missing files should fail.":     {path: "missing.json", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mReg := &mockRegistry{}
			if !test.expErr {
				mReg.On("MergeAppend", mock.Anything, []model.Task{{ID: 1, Text: "a"}}).Once().Return(nil)
			}

			r, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{Registry: mReg})
			require.NoError(t, err)

			res, err := r.ImportFile(context.Background(), fsys, test.path, reconcile.StrategyMerge)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, res.Imported)
			}
			mReg.AssertExpectations(t)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, reconcile.FormatYAML, reconcile.FormatFromPath("/tmp/a.YAML"))
	assert.Equal(t, reconcile.FormatYAML, reconcile.FormatFromPath("a.yml"))
	assert.Equal(t, reconcile.FormatJSON, reconcile.FormatFromPath("a.json"))
	assert.Equal(t, reconcile.FormatJSON, reconcile.FormatFromPath("a"))
}

func TestMergeNeverCollides(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	store, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)
	c, err := codec.NewCodec(codec.CodecConfig{Store: store})
	require.NoError(err)
	reg, err := registry.NewRegistry(registry.RegistryConfig{Persister: c})
	require.NoError(err)

	for _, text := range []string{"a", "b", "c"} {
		_, err := reg.Add(ctx, text)
		require.NoError(err)
	}
	_, _, err = reg.Delete(ctx, 2)
	require.NoError(err)
	before := reg.Tasks()
	maxID := model.MaxID(before)

	r, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{Registry: reg})
	require.NoError(err)

	// Incoming ids collide with the existing ones on purpose.
	res, err := r.Import(ctx, []byte(`[{"id":3,"text":"x"},{"id":1,"text":"y"},{"id":3,"text":"z"}]`), reconcile.FormatJSON, reconcile.StrategyMerge)
	require.NoError(err)
	assert.Equal(3, res.Imported)

	after := reg.Tasks()
	require.Len(after, len(before)+3)
	assert.Equal(before, after[:len(before)])

	incoming := after[len(before):]
	for i, task := range incoming {
		assert.Equal(maxID+int64(i)+1, task.ID)
	}
	assert.Equal([]string{"x", "y", "z"}, []string{incoming[0].Text, incoming[1].Text, incoming[2].Text})

	ids := map[int64]bool{}
	for _, task := range after {
		assert.False(ids[task.ID])
		ids[task.ID] = true
	}
}

func TestNewReconcilerRequiresRegistry(t *testing.T) {
	_, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{})
	assert.Error(t, err)
}
