package store

import (
	"context"
	"encoding/json"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/data/redisStore"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

const progressKeyPrefix = "upload_progress_"

type RedisProgressStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisProgressStore(ctx context.Context) *RedisProgressStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisProgressStore)
	if inner == nil {
		return nil
	}
	return &RedisProgressStore{
		store:  inner,
		logger: logger_i.NewLogger("ProgressStore"),
	}
}

func (s *RedisProgressStore) SetProgress(ctx context.Context, uploadId string, snapshot uploadModel.ProgressSnapshot) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "uploadId", uploadId)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, progressKeyPrefix+uploadId, data, config.ProgressCacheTTL)
	if err == nil {
		log.Debug("cached progress snapshot", "progress", snapshot.Progress)
	}
	return err
}

func (s *RedisProgressStore) GetProgress(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool) {
	var snapshot uploadModel.ProgressSnapshot
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "uploadId", uploadId)
	val, err := s.store.Get(ctx, progressKeyPrefix+uploadId)
	if s.store.IsNil(err) {
		return snapshot, false
	} else if err != nil {
		return snapshot, false
	}

	err = json.Unmarshal([]byte(val), &snapshot)
	if err != nil {
		log.Warn("failed to unmarshal progress snapshot", "error", err)
		return snapshot, false
	}

	return snapshot, true
}

func TestProgressStore(store *redisStore.Store) *RedisProgressStore {
	return &RedisProgressStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
