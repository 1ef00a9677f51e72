package persistent

import (
	"errors"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
)

type StreakRepository interface {
	// Get returns the streak row for a (child, chore) pair, or nil when the
	// child has never submitted for that chore. Writes happen only through
	// CompletionRepository.CreateWithStreak.
	Get(familyID, childID, choreID string) (*entity.Streak, error)
	ListByChild(familyID, childID string) ([]*entity.Streak, error)
}

type streakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Get(familyID, childID, choreID string) (*entity.Streak, error) {
	var streakModel model.StreakModel
	err := r.db.Where("family_id = ? AND child_id = ? AND chore_id = ?", familyID, childID, choreID).
		First(&streakModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToStreakEntity(&streakModel), nil
}

func (r *streakRepository) ListByChild(familyID, childID string) ([]*entity.Streak, error) {
	var streakModels []model.StreakModel
	err := r.db.Where("family_id = ? AND child_id = ?", familyID, childID).
		Order("current DESC").
		Find(&streakModels).Error
	if err != nil {
		return nil, err
	}

	streaks := make([]*entity.Streak, len(streakModels))
	for i := range streakModels {
		streaks[i] = ToStreakEntity(&streakModels[i])
	}
	return streaks, nil
}
