package usecase

import (
	"fmt"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

// monthlyThresholds are the absolute approved-completion counts that mint a
// monthly milestone, with their star payouts.
var monthlyThresholds = []struct {
	Count int
	Stars int
}{
	{100, 100},
	{50, 40},
	{25, 15},
	{10, 5},
}

// MilestoneBonus decides whether the given streak length is exactly a
// milestone day under the family's configuration. Returns nil when no bonus
// is due; an award carrying neither money nor stars is also nil, since it
// would never be recorded.
func MilestoneBonus(settings *entity.FamilySettings, streakLength int) *entity.BonusAward {
	if settings == nil || !settings.BonusEnabled || settings.BonusDays <= 0 {
		return nil
	}
	if streakLength < settings.BonusDays || streakLength%settings.BonusDays != 0 {
		return nil
	}

	award := &entity.BonusAward{
		Kind:         entity.BonusKindStreak,
		StreakLength: streakLength,
	}
	switch settings.BonusType {
	case entity.BonusMoney:
		award.MoneyPence = settings.BonusMoneyPence
	case entity.BonusStars:
		award.Stars = settings.BonusStars
	case entity.BonusBoth:
		award.MoneyPence = settings.BonusMoneyPence
		award.Stars = settings.BonusStars
	}
	if award.Empty() {
		return nil
	}
	return award
}

// MonthlyMilestone returns the highest threshold the count has reached, if any.
func MonthlyMilestone(approvedThisMonth int) (threshold, stars int, ok bool) {
	for _, t := range monthlyThresholds {
		if approvedThisMonth >= t.Count {
			return t.Count, t.Stars, true
		}
	}
	return 0, 0, false
}

type BonusUseCase interface {
	// RunMonthlySweep awards the monthly milestone bonus to every child that
	// has crossed a threshold this month and has not yet been paid for it.
	// Driven by the external scheduler collaborator.
	RunMonthlySweep(familyID string) (int, error)
	// RunPerfectWeekSweep awards the perfect-week bonus to children with an
	// approved completion on each of the trailing seven days.
	RunPerfectWeekSweep(familyID string) (int, error)
}

type bonusUseCase struct {
	familyRepo     persistent.FamilyRepository
	completionRepo persistent.CompletionRepository
	walletRepo     persistent.WalletRepository
	logger         *logger.Logger
}

func NewBonusUseCase(
	familyRepo persistent.FamilyRepository,
	completionRepo persistent.CompletionRepository,
	walletRepo persistent.WalletRepository,
	logger *logger.Logger,
) BonusUseCase {
	return &bonusUseCase{
		familyRepo:     familyRepo,
		completionRepo: completionRepo,
		walletRepo:     walletRepo,
		logger:         logger,
	}
}

func (uc *bonusUseCase) RunMonthlySweep(familyID string) (int, error) {
	children, err := uc.familyRepo.ListChildren(familyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list children: %w", err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthKey := monthStart.Format("2006-01")

	awarded := 0
	for _, child := range children {
		count, err := uc.completionRepo.CountApprovedInRange(familyID, child.ID, monthStart, now)
		if err != nil {
			return awarded, fmt.Errorf("failed to count completions for child %s: %w", child.ID, err)
		}
		threshold, stars, ok := MonthlyMilestone(count)
		if !ok {
			continue
		}

		wallet, err := uc.walletRepo.GetOrCreate(familyID, child.ID)
		if err != nil {
			return awarded, fmt.Errorf("failed to get wallet: %w", err)
		}

		dup, err := uc.alreadyAwarded(wallet.ID, entity.SourceMonthlyBonus, monthStart, func(meta entity.TxMeta) bool {
			return meta.Month == monthKey && meta.Threshold == threshold
		})
		if err != nil {
			return awarded, err
		}
		if dup {
			continue
		}

		_, err = uc.walletRepo.Credit(wallet.ID, 0, stars, entity.SourceMonthlyBonus, entity.TxMeta{
			Type:      entity.SourceMonthlyBonus,
			Threshold: threshold,
			Month:     monthKey,
		})
		if err != nil {
			return awarded, fmt.Errorf("failed to credit monthly bonus: %w", err)
		}
		awarded++
		uc.logger.Info("Monthly milestone %d awarded to child %s (%d stars)", threshold, child.ID, stars)
	}
	return awarded, nil
}

func (uc *bonusUseCase) RunPerfectWeekSweep(familyID string) (int, error) {
	settings, err := uc.familyRepo.GetSettings(familyID)
	if err != nil {
		return 0, fmt.Errorf("failed to load family settings: %w", err)
	}
	if !settings.PerfectWeekEnabled || (settings.PerfectWeekPence == 0 && settings.PerfectWeekStars == 0) {
		return 0, nil
	}

	children, err := uc.familyRepo.ListChildren(familyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list children: %w", err)
	}

	now := time.Now().UTC()
	today := toDay(now)
	weekStart := today.AddDate(0, 0, -7)
	weekKey := weekStart.Format("2006-01-02")

	awarded := 0
	for _, child := range children {
		times, err := uc.completionRepo.ApprovedDays(familyID, child.ID, weekStart, today)
		if err != nil {
			return awarded, fmt.Errorf("failed to load approved days: %w", err)
		}
		if len(uniqueDays(times)) < 7 {
			continue
		}

		wallet, err := uc.walletRepo.GetOrCreate(familyID, child.ID)
		if err != nil {
			return awarded, fmt.Errorf("failed to get wallet: %w", err)
		}

		dup, err := uc.alreadyAwarded(wallet.ID, entity.SourcePerfectWeekBonus, weekStart, func(meta entity.TxMeta) bool {
			return meta.WeekStart == weekKey
		})
		if err != nil {
			return awarded, err
		}
		if dup {
			continue
		}

		_, err = uc.walletRepo.Credit(wallet.ID, settings.PerfectWeekPence, settings.PerfectWeekStars,
			entity.SourcePerfectWeekBonus, entity.TxMeta{
				Type:      entity.SourcePerfectWeekBonus,
				WeekStart: weekKey,
			})
		if err != nil {
			return awarded, fmt.Errorf("failed to credit perfect week bonus: %w", err)
		}
		awarded++
		uc.logger.Info("Perfect week bonus awarded to child %s", child.ID)
	}
	return awarded, nil
}

func (uc *bonusUseCase) alreadyAwarded(walletID, metaType string, since time.Time, match func(entity.TxMeta) bool) (bool, error) {
	recent, err := uc.walletRepo.RecentByMetaType(walletID, metaType, since)
	if err != nil {
		return false, fmt.Errorf("failed to scan bonus transactions: %w", err)
	}
	for _, tx := range recent {
		if match(tx.Meta) {
			return true, nil
		}
	}
	return false, nil
}
