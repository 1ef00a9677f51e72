package usecase

import (
	"fmt"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

type ChoreUseCase interface {
	CreateChore(familyID, title string, rewardPence int, starOverride *int, frequency entity.ChoreFrequency) (*entity.Chore, error)
	ListChores(familyID string, activeOnly bool) ([]*entity.Chore, error)
	CreateAssignment(familyID, choreID, childID string, biddingEnabled bool) (*entity.Assignment, error)
	ListAssignments(familyID string) ([]*entity.Assignment, error)
	DeleteAssignment(familyID, assignmentID string) error
}

type choreUseCase struct {
	choreRepo      persistent.ChoreRepository
	assignmentRepo persistent.AssignmentRepository
	familyRepo     persistent.FamilyRepository
	cache          CacheInvalidator
	logger         *logger.Logger
}

func NewChoreUseCase(
	choreRepo persistent.ChoreRepository,
	assignmentRepo persistent.AssignmentRepository,
	familyRepo persistent.FamilyRepository,
	cache CacheInvalidator,
	logger *logger.Logger,
) ChoreUseCase {
	return &choreUseCase{
		choreRepo:      choreRepo,
		assignmentRepo: assignmentRepo,
		familyRepo:     familyRepo,
		cache:          cache,
		logger:         logger,
	}
}

func (uc *choreUseCase) CreateChore(familyID, title string, rewardPence int, starOverride *int, frequency entity.ChoreFrequency) (*entity.Chore, error) {
	if title == "" {
		return nil, fmt.Errorf("chore title is required")
	}
	if rewardPence < 0 {
		return nil, fmt.Errorf("reward must not be negative")
	}
	switch frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyOnce:
	default:
		return nil, fmt.Errorf("invalid frequency %q", frequency)
	}

	chore := &entity.Chore{
		FamilyID:     familyID,
		Title:        title,
		RewardPence:  rewardPence,
		StarOverride: starOverride,
		Frequency:    frequency,
		Active:       true,
	}
	if err := uc.choreRepo.Create(chore); err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}

	uc.invalidateFamily(familyID)
	return chore, nil
}

func (uc *choreUseCase) ListChores(familyID string, activeOnly bool) ([]*entity.Chore, error) {
	chores, err := uc.choreRepo.ListByFamily(familyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}
	return chores, nil
}

func (uc *choreUseCase) CreateAssignment(familyID, choreID, childID string, biddingEnabled bool) (*entity.Assignment, error) {
	if _, err := uc.choreRepo.GetByID(familyID, choreID); err != nil {
		return nil, fmt.Errorf("failed to load chore: %w", err)
	}
	if childID != "" {
		if _, err := uc.familyRepo.GetChild(familyID, childID); err != nil {
			return nil, fmt.Errorf("failed to load child: %w", err)
		}
	}

	assignment := &entity.Assignment{
		FamilyID:       familyID,
		ChoreID:        choreID,
		ChildID:        childID,
		BiddingEnabled: biddingEnabled,
	}
	if err := uc.assignmentRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	uc.invalidateFamily(familyID)
	return assignment, nil
}

func (uc *choreUseCase) ListAssignments(familyID string) ([]*entity.Assignment, error) {
	assignments, err := uc.assignmentRepo.ListByFamily(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (uc *choreUseCase) DeleteAssignment(familyID, assignmentID string) error {
	if err := uc.assignmentRepo.Delete(familyID, assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	uc.invalidateFamily(familyID)
	return nil
}

func (uc *choreUseCase) invalidateFamily(familyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateFamily(familyID); err != nil {
		uc.logger.Warn("Failed to invalidate family cache: %v", err)
	}
}
