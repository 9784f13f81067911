package serviceimpl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todoai/application/analysis"
	"todoai/domain/models"
	"todoai/domain/ports"
	"todoai/domain/repositories"
	"todoai/domain/services"
	"todoai/pkg/apperrors"
	"todoai/pkg/logger"
)

const DefaultAnalysisCacheTTL = 10 * time.Minute

type AnalysisServiceImpl struct {
	taskRepo     repositories.TaskReader
	orchestrator *analysis.Orchestrator
	cache        ports.AnalysisCache // nil = ไม่มี cache
	cacheTTL     time.Duration
}

func NewAnalysisService(taskRepo repositories.TaskReader, orchestrator *analysis.Orchestrator, cache ports.AnalysisCache, cacheTTL time.Duration) services.AnalysisService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultAnalysisCacheTTL
	}
	return &AnalysisServiceImpl{
		taskRepo:     taskRepo,
		orchestrator: orchestrator,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

func (s *AnalysisServiceImpl) AnalyzeTasks(ctx context.Context, ownerID uuid.UUID, refresh bool) (*models.AnalysisResult, bool, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load tasks for analysis", "user_id", ownerID, "error", err)
		return nil, false, apperrors.Store("list tasks", err)
	}

	key := ""
	if s.cache != nil {
		key, err = AnalysisCacheKey(ownerID, tasks)
		if err != nil {
			logger.WarnContext(ctx, "Failed to build analysis cache key", "error", err)
			key = ""
		}
	}

	if key != "" && !refresh {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.WarnContext(ctx, "Analysis cache read failed", "key", key, "error", err)
		} else if cached != nil {
			logger.DebugContext(ctx, "Analysis cache hit", "user_id", ownerID)
			return cached, true, nil
		}
	}

	result := s.orchestrator.Analyze(ctx, tasks)

	// fallback ไม่ถูก cache เพื่อให้ลองใหม่ได้ทันทีเมื่อ provider กลับมา
	if key != "" && !result.IsFallback() {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			logger.WarnContext(ctx, "Analysis cache write failed", "key", key, "error", err)
		}
	}

	logger.InfoContext(ctx, "Analysis completed",
		"user_id", ownerID,
		"tasks", len(tasks),
		"provider", result.Provider,
		"risks", len(result.Risks),
	)
	return result, false, nil
}

type snapshotEntry struct {
	ID      string `json:"i"`
	Version int64  `json:"v"`
	Updated int64  `json:"u"`
}

// AnalysisCacheKey - analysis:{owner}:{hash} โดย hash เปลี่ยนเมื่อ task ใดถูกสร้าง แก้ไข หรือลบ
func AnalysisCacheKey(ownerID uuid.UUID, tasks []*models.Task) (string, error) {
	entries := make([]snapshotEntry, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		entries = append(entries, snapshotEntry{
			ID:      t.ID.String(),
			Version: t.Version,
			Updated: t.UpdatedAt.UnixNano(),
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return "analysis:" + ownerID.String() + ":" + hex.EncodeToString(sum[:16]), nil
}
