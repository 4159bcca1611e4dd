// Package codec translates the task collection to and from a single slot of a
// durable key-value store.
//
// The slot holds a JSON envelope:
//
//	{"todos": [...], "counter": 7, "lastSaved": "2026-10-19T09:30:00.000Z"}
//
// Slots written by older versions hold a bare JSON array of tasks. Those are accepted
// on load and upgraded in place to the envelope format.
package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/storage"
)

// DefaultSlotKey is the slot used to store the tasks.
const DefaultSlotKey = "todos"

// CodecConfig is the configuration for the store codec.
type CodecConfig struct {
	Store   storage.SlotStore
	SlotKey string
	Logger  log.Logger
	// TimeNow is used to set the envelope save time, defaults to time.Now.
	TimeNow func() time.Time
	// NewBackupID returns the unique suffix of corrupt data backup slots, defaults to ULIDs.
	NewBackupID func() string
}

func (c *CodecConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.SlotKey == "" {
		c.SlotKey = DefaultSlotKey
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	if c.NewBackupID == nil {
		c.NewBackupID = func() string { return ulid.Make().String() }
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "codec.Codec", "slot": c.SlotKey})
	return nil
}

// Codec serializes the task collection to a store slot.
type Codec struct {
	store       storage.SlotStore
	slotKey     string
	logger      log.Logger
	timeNow     func() time.Time
	newBackupID func() string
}

// NewCodec returns a new store codec.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Codec{
		store:       cfg.Store,
		slotKey:     cfg.SlotKey,
		logger:      cfg.Logger,
		timeNow:     cfg.TimeNow,
		newBackupID: cfg.NewBackupID,
	}, nil
}

// Envelope is the persisted format of the task collection.
type Envelope struct {
	Todos     []model.Task `json:"todos"`
	Counter   int64        `json:"counter"`
	LastSaved string       `json:"lastSaved"`
}

// LoadResult is the task collection read from the store.
type LoadResult struct {
	Tasks   []model.Task
	Counter int64
	// Migrated is true when a legacy slot was upgraded to the envelope format.
	Migrated bool
	// BackupKey is the slot that holds a copy of unreadable data, if any.
	BackupKey string
	// LastSaved is the time the collection was last saved, zero when unknown.
	LastSaved time.Time
}

// Save writes the tasks and the next id counter to the store slot.
func (c *Codec) Save(ctx context.Context, tasks []model.Task, counter int64) error {
	_, err := c.save(ctx, tasks, counter)
	return err
}

func (c *Codec) save(ctx context.Context, tasks []model.Task, counter int64) (time.Time, error) {
	now := c.timeNow().UTC().Truncate(time.Millisecond)
	env := Envelope{
		Todos:     tasks,
		Counter:   counter,
		LastSaved: model.FormatTime(now),
	}
	if env.Todos == nil {
		env.Todos = []model.Task{}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not encode tasks: %w: %w", err, model.ErrStorageWrite)
	}

	if err := c.store.PutSlot(ctx, c.slotKey, data); err != nil {
		return time.Time{}, fmt.Errorf("could not write slot %q: %w: %w", c.slotKey, err, model.ErrStorageWrite)
	}

	c.logger.Debugf("Saved %d tasks with counter %d", len(tasks), counter)
	return now, nil
}

// Load reads the tasks from the store slot.
//
// An absent slot is an empty collection. Invalid task entries are dropped. Data that
// is not an envelope or a legacy task list returns model.ErrStorageCorrupt, after a
// copy of it has been stored in a backup slot when possible. A backed up slot is reset
// to an empty collection.
func (c *Codec) Load(ctx context.Context) (LoadResult, error) {
	data, err := c.store.GetSlot(ctx, c.slotKey)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.logger.Debugf("Slot is absent, starting empty")
			return LoadResult{Counter: 1}, nil
		}
		return LoadResult{Counter: 1}, fmt.Errorf("could not read slot %q: %w: %w", c.slotKey, err, model.ErrStorageCorrupt)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return c.corrupt(ctx, data, fmt.Errorf("could not parse slot %q: %w: %w", c.slotKey, err, model.ErrStorageCorrupt))
	}

	switch v := raw.(type) {
	case map[string]any:
		entries, ok := v["todos"].([]any)
		if !ok {
			return c.corrupt(ctx, data, fmt.Errorf("slot %q object has no todos list: %w", c.slotKey, model.ErrStorageCorrupt))
		}

		tasks := FilterValid(entries)
		counter := model.NextID(tasks)
		if stored, ok := toInt64(v["counter"]); ok && stored >= 1 && isIntegral(v["counter"]) && stored > counter {
			counter = stored
		}

		res := LoadResult{Tasks: tasks, Counter: counter}
		if s, ok := v["lastSaved"].(string); ok {
			if t, err := model.ParseTime(s); err == nil {
				res.LastSaved = t
			}
		}

		c.logger.Debugf("Loaded %d tasks (%d dropped) with counter %d", len(tasks), len(entries)-len(tasks), counter)
		return res, nil

	case []any:
		tasks := FilterValid(v)
		res := LoadResult{Tasks: tasks, Counter: model.NextID(tasks)}

		c.logger.Infof("Upgrading legacy task list slot with %d tasks", len(tasks))
		savedAt, err := c.save(ctx, res.Tasks, res.Counter)
		if err != nil {
			return res, fmt.Errorf("could not upgrade legacy slot: %w", err)
		}
		res.Migrated = true
		res.LastSaved = savedAt

		return res, nil
	}

	return c.corrupt(ctx, data, fmt.Errorf("slot %q has an unknown format: %w", c.slotKey, model.ErrStorageCorrupt))
}

func (c *Codec) corrupt(ctx context.Context, data []byte, err error) (LoadResult, error) {
	res := LoadResult{Counter: 1}

	key := fmt.Sprintf("%s.corrupt.%s", c.slotKey, c.newBackupID())
	if perr := c.store.PutSlot(ctx, key, data); perr != nil {
		c.logger.Warningf("Could not back up corrupt slot data: %s", perr)
		return res, err
	}
	res.BackupKey = key
	c.logger.Warningf("Corrupt slot data backed up in %q", key)

	// A backed up slot is reset to an empty collection.
	if serr := c.Save(ctx, nil, res.Counter); serr != nil {
		c.logger.Warningf("Could not reset corrupt slot: %s", serr)
	}

	return res, err
}
