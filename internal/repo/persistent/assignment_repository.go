package persistent

import (
	"errors"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(assignment *entity.Assignment) error
	GetByID(familyID, assignmentID string) (*entity.Assignment, error)
	ListByFamily(familyID string) ([]*entity.Assignment, error)
	ListByChild(familyID, childID string) ([]*entity.Assignment, error)
	Delete(familyID, assignmentID string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *entity.Assignment) error {
	assignmentModel := ToAssignmentModel(assignment)
	if err := r.db.Create(assignmentModel).Error; err != nil {
		return err
	}
	assignment.ID = assignmentModel.ID
	assignment.CreatedAt = assignmentModel.CreatedAt
	return nil
}

func (r *assignmentRepository) GetByID(familyID, assignmentID string) (*entity.Assignment, error) {
	var assignmentModel model.AssignmentModel
	if err := r.db.Where("family_id = ? AND id = ?", familyID, assignmentID).First(&assignmentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToAssignmentEntity(&assignmentModel), nil
}

func (r *assignmentRepository) ListByFamily(familyID string) ([]*entity.Assignment, error) {
	var assignmentModels []model.AssignmentModel
	if err := r.db.Where("family_id = ?", familyID).Order("created_at DESC").Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toAssignmentEntities(assignmentModels), nil
}

// ListByChild returns assignments the child may work on: those naming the
// child plus open ones.
func (r *assignmentRepository) ListByChild(familyID, childID string) ([]*entity.Assignment, error) {
	var assignmentModels []model.AssignmentModel
	err := r.db.
		Where("family_id = ? AND (child_id = ? OR child_id IS NULL)", familyID, childID).
		Order("created_at DESC").
		Find(&assignmentModels).Error
	if err != nil {
		return nil, err
	}
	return toAssignmentEntities(assignmentModels), nil
}

func (r *assignmentRepository) Delete(familyID, assignmentID string) error {
	result := r.db.Where("family_id = ? AND id = ?", familyID, assignmentID).Delete(&model.AssignmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func toAssignmentEntities(assignmentModels []model.AssignmentModel) []*entity.Assignment {
	assignments := make([]*entity.Assignment, len(assignmentModels))
	for i := range assignmentModels {
		assignments[i] = ToAssignmentEntity(&assignmentModels[i])
	}
	return assignments
}
