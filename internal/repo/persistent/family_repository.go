package persistent

import (
	"errors"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
)

type FamilyRepository interface {
	GetSettings(familyID string) (*entity.FamilySettings, error)
	GetChild(familyID, childID string) (*entity.Child, error)
	ListChildren(familyID string) ([]*entity.Child, error)
}

type familyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

// GetSettings returns the family's bonus configuration. A family without a
// settings row gets zero-valued settings with the default star rate, so the
// core never has to special-case an unconfigured family.
func (r *familyRepository) GetSettings(familyID string) (*entity.FamilySettings, error) {
	var settingsModel model.FamilySettingsModel
	if err := r.db.Where("family_id = ?", familyID).First(&settingsModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.FamilySettings{
				FamilyID:      familyID,
				StarRatePence: 10,
				BonusType:     entity.BonusMoney,
			}, nil
		}
		return nil, err
	}
	return ToFamilySettingsEntity(&settingsModel), nil
}

func (r *familyRepository) GetChild(familyID, childID string) (*entity.Child, error) {
	var childModel model.ChildModel
	if err := r.db.Where("family_id = ? AND id = ?", familyID, childID).First(&childModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToChildEntity(&childModel), nil
}

func (r *familyRepository) ListChildren(familyID string) ([]*entity.Child, error) {
	var childModels []model.ChildModel
	if err := r.db.Where("family_id = ?", familyID).Order("name ASC").Find(&childModels).Error; err != nil {
		return nil, err
	}

	children := make([]*entity.Child, len(childModels))
	for i := range childModels {
		children[i] = ToChildEntity(&childModels[i])
	}
	return children, nil
}
