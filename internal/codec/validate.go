package codec

import (
	"math"

	"github.com/slok/todo/internal/model"
)

// FilterValid returns the entries that are structurally valid tasks, converted to
// tasks. Invalid entries are dropped.
//
// An entry is valid when it is a record with a numeric id and a string text. Text is
// not checked for emptiness. Missing or mistyped completed and createdAt fields fall
// back to their zero values.
func FilterValid(entries []any) []model.Task {
	tasks := make([]model.Task, 0, len(entries))
	for _, e := range entries {
		t, ok := DecodeTask(e)
		if !ok {
			continue
		}
		tasks = append(tasks, t)
	}

	return tasks
}

// DecodeTask converts a generic decoded entry (JSON or YAML) into a task.
func DecodeTask(entry any) (model.Task, bool) {
	record, ok := toRecord(entry)
	if !ok {
		return model.Task{}, false
	}

	id, ok := toInt64(record["id"])
	if !ok {
		return model.Task{}, false
	}

	text, ok := record["text"].(string)
	if !ok {
		return model.Task{}, false
	}

	completed, _ := record["completed"].(bool)
	createdAt, _ := record["createdAt"].(string)

	return model.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		CreatedAt: createdAt,
	}, true
}

func toRecord(v any) (map[string]any, bool) {
	switch r := v.(type) {
	case map[string]any:
		return r, true
	case map[any]any:
		record := make(map[string]any, len(r))
		for k, v := range r {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			record[ks] = v
		}
		return record, true
	}

	return nil, false
}

// toInt64 converts any numeric value, non integral numbers are truncated toward zero.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return toInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}

	return 0, false
}

func isIntegral(v any) bool {
	f, ok := v.(float64)
	if !ok {
		_, ok := toInt64(v)
		return ok
	}
	return f == math.Trunc(f)
}
