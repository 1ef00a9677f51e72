package usecase

import (
	"fmt"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

type StreakUseCase interface {
	// ChildSummary walks the child's full submission history (pending and
	// approved) under the family's protection window.
	ChildSummary(familyID, childID string) (*entity.StreakSummary, error)
	// ChoreStreaks returns the incrementally maintained per-chore rows.
	ChoreStreaks(familyID, childID string) ([]*entity.Streak, error)
}

type streakUseCase struct {
	completionRepo persistent.CompletionRepository
	streakRepo     persistent.StreakRepository
	familyRepo     persistent.FamilyRepository
	logger         *logger.Logger
}

func NewStreakUseCase(
	completionRepo persistent.CompletionRepository,
	streakRepo persistent.StreakRepository,
	familyRepo persistent.FamilyRepository,
	logger *logger.Logger,
) StreakUseCase {
	return &streakUseCase{
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		familyRepo:     familyRepo,
		logger:         logger,
	}
}

func (uc *streakUseCase) ChildSummary(familyID, childID string) (*entity.StreakSummary, error) {
	if _, err := uc.familyRepo.GetChild(familyID, childID); err != nil {
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	settings, err := uc.familyRepo.GetSettings(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family settings: %w", err)
	}

	times, err := uc.completionRepo.SubmissionTimes(familyID, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	current, best := CalculateStreak(times, settings.ProtectionDays, time.Now())
	return &entity.StreakSummary{
		ChildID:      childID,
		Current:      current,
		Best:         best,
		BonusPercent: StreakBonusPercent(current),
	}, nil
}

func (uc *streakUseCase) ChoreStreaks(familyID, childID string) ([]*entity.Streak, error) {
	streaks, err := uc.streakRepo.ListByChild(familyID, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}
	return streaks, nil
}
