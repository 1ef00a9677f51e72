package persistent

import (
	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
)

type BidRepository interface {
	Create(bid *entity.Bid) error
	ListByAssignment(assignmentID string) ([]*entity.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(bid *entity.Bid) error {
	bidModel := ToBidModel(bid)
	if err := r.db.Create(bidModel).Error; err != nil {
		return err
	}
	bid.ID = bidModel.ID
	bid.CreatedAt = bidModel.CreatedAt
	return nil
}

// ListByAssignment returns every bid ever placed on the assignment, oldest
// first. The champion is always recomputed from this snapshot, never stored.
func (r *bidRepository) ListByAssignment(assignmentID string) ([]*entity.Bid, error) {
	var bidModels []model.BidModel
	err := r.db.Where("assignment_id = ?", assignmentID).Order("created_at ASC").Find(&bidModels).Error
	if err != nil {
		return nil, err
	}

	bids := make([]*entity.Bid, len(bidModels))
	for i := range bidModels {
		bids[i] = ToBidEntity(&bidModels[i])
	}
	return bids, nil
}
