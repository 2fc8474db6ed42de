package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/lessonbird/timetable/core/model"
)

const (
	placementPrefix = "placement:" // Hash: placement:{id} -> placement fields
	scopePrefix     = "timetable:" // timetable:{school}:{term}:ids (Set), :version (String)
)

// RedisStore persists placements in Redis. The scope version lives in a
// plain counter key; Apply wraps the commit in WATCH/MULTI so a concurrent
// admission invalidates the transaction instead of corrupting the slot
// invariants.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func scopeIDsKey(schoolID, termID string) string {
	return scopePrefix + schoolID + ":" + termID + ":ids"
}

func scopeVersionKey(schoolID, termID string) string {
	return scopePrefix + schoolID + ":" + termID + ":version"
}

func placementKey(id string) string { return placementPrefix + id }

func placementFields(p model.Placement) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID,
		"school_id":  p.SchoolID,
		"term_id":    p.TermID,
		"day":        int(p.Day),
		"period_id":  p.PeriodID,
		"class_id":   p.ClassID,
		"subject_id": p.SubjectID,
		"teacher_id": p.TeacherID,
		"room_id":    p.RoomID,
	}
}

func placementFromFields(data map[string]string) (model.Placement, error) {
	if len(data) == 0 {
		return model.Placement{}, ErrNotFound
	}
	day, err := strconv.Atoi(data["day"])
	if err != nil {
		return model.Placement{}, fmt.Errorf("corrupt placement day %q: %w", data["day"], err)
	}
	return model.Placement{
		ID:        data["id"],
		SchoolID:  data["school_id"],
		TermID:    data["term_id"],
		Day:       model.Weekday(day),
		PeriodID:  data["period_id"],
		ClassID:   data["class_id"],
		SubjectID: data["subject_id"],
		TeacherID: data["teacher_id"],
		RoomID:    data["room_id"],
	}, nil
}

func currentVersion(ctx context.Context, c redis.Cmdable, schoolID, termID string) (uint64, error) {
	v, err := c.Get(ctx, scopeVersionKey(schoolID, termID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Snapshot implements Store.
func (s *RedisStore) Snapshot(ctx context.Context, schoolID, termID string) ([]model.Placement, uint64, error) {
	version, err := currentVersion(ctx, s.client, schoolID, termID)
	if err != nil {
		return nil, 0, err
	}
	ids, err := s.client.SMembers(ctx, scopeIDsKey(schoolID, termID)).Result()
	if err != nil {
		return nil, 0, err
	}
	var out []model.Placement
	for _, id := range ids {
		data, err := s.client.HGetAll(ctx, placementKey(id)).Result()
		if err != nil {
			return nil, 0, err
		}
		p, err := placementFromFields(data)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, version, nil
}

// Apply implements Store using WATCH on the scope version key.
func (s *RedisStore) Apply(ctx context.Context, schoolID, termID string, version uint64, deleteIDs []string, insert model.Placement) error {
	verKey := scopeVersionKey(schoolID, termID)
	idsKey := scopeIDsKey(schoolID, termID)

	txf := func(tx *redis.Tx) error {
		current, err := currentVersion(ctx, tx, schoolID, termID)
		if err != nil {
			return err
		}
		if current != version {
			return ErrStaleSnapshot
		}
		for _, id := range deleteIDs {
			n, err := tx.Exists(ctx, placementKey(id)).Result()
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range deleteIDs {
				pipe.Del(ctx, placementKey(id))
				pipe.SRem(ctx, idsKey, id)
			}
			pipe.HSet(ctx, placementKey(insert.ID), placementFields(insert))
			pipe.SAdd(ctx, idsKey, insert.ID)
			pipe.Incr(ctx, verKey)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleSnapshot
	}
	return err
}

// Remove implements Store.
func (s *RedisStore) Remove(ctx context.Context, id string) (model.Placement, error) {
	var removed model.Placement
	key := placementKey(id)
	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		p, err := placementFromFields(data)
		if err != nil {
			return err
		}
		removed = p
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, scopeIDsKey(p.SchoolID, p.TermID), id)
			pipe.Incr(ctx, scopeVersionKey(p.SchoolID, p.TermID))
			return nil
		})
		return err
	}
	err := s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.Placement{}, ErrStaleSnapshot
	}
	if err != nil {
		return model.Placement{}, err
	}
	return removed, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (model.Placement, error) {
	data, err := s.client.HGetAll(ctx, placementKey(id)).Result()
	if err != nil {
		return model.Placement{}, err
	}
	return placementFromFields(data)
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }
