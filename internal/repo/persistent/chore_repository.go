package persistent

import (
	"errors"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
)

type ChoreRepository interface {
	Create(chore *entity.Chore) error
	GetByID(familyID, choreID string) (*entity.Chore, error)
	ListByFamily(familyID string, activeOnly bool) ([]*entity.Chore, error)
}

type choreRepository struct {
	db *gorm.DB
}

func NewChoreRepository(db *gorm.DB) ChoreRepository {
	return &choreRepository{db: db}
}

func (r *choreRepository) Create(chore *entity.Chore) error {
	choreModel := ToChoreModel(chore)
	if err := r.db.Create(choreModel).Error; err != nil {
		return err
	}
	chore.ID = choreModel.ID
	chore.CreatedAt = choreModel.CreatedAt
	return nil
}

func (r *choreRepository) GetByID(familyID, choreID string) (*entity.Chore, error) {
	var choreModel model.ChoreModel
	if err := r.db.Where("family_id = ? AND id = ?", familyID, choreID).First(&choreModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToChoreEntity(&choreModel), nil
}

func (r *choreRepository) ListByFamily(familyID string, activeOnly bool) ([]*entity.Chore, error) {
	query := r.db.Where("family_id = ?", familyID).Order("created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var choreModels []model.ChoreModel
	if err := query.Find(&choreModels).Error; err != nil {
		return nil, err
	}

	chores := make([]*entity.Chore, len(choreModels))
	for i := range choreModels {
		chores[i] = ToChoreEntity(&choreModels[i])
	}
	return chores, nil
}
