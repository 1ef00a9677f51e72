package usecase

import (
	"fmt"
	"sync"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
)

// memStore is an in-memory stand-in for every repository interface, so the
// use cases can be exercised without a database. Public repo methods take
// the store lock; composite operations hold it for their full duration,
// mirroring the row locking the real repositories get from Postgres.
type memStore struct {
	mu sync.Mutex

	children    map[string]*entity.Child
	settings    *entity.FamilySettings
	chores      map[string]*entity.Chore
	assignments map[string]*entity.Assignment
	bids        []*entity.Bid
	completions map[string]*entity.Completion
	streaks     map[string]*entity.Streak
	wallets     map[string]*entity.Wallet
	txs         []*entity.Transaction
	purchases   map[string]*entity.StarPurchase

	seq       int
	creditErr error // injected ledger failure
}

func newMemStore() *memStore {
	return &memStore{
		children:    make(map[string]*entity.Child),
		chores:      make(map[string]*entity.Chore),
		assignments: make(map[string]*entity.Assignment),
		completions: make(map[string]*entity.Completion),
		streaks:     make(map[string]*entity.Streak),
		wallets:     make(map[string]*entity.Wallet),
		purchases:   make(map[string]*entity.StarPurchase),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addChild(familyID, childID string) {
	s.children[childID] = &entity.Child{ID: childID, FamilyID: familyID, Name: childID}
}

func streakKey(childID, choreID string) string {
	return childID + "|" + choreID
}

// Unlocked internals, callers hold s.mu.

func (s *memStore) bidsFor(assignmentID string) []*entity.Bid {
	var out []*entity.Bid
	for _, bid := range s.bids {
		if bid.AssignmentID == assignmentID {
			out = append(out, bid)
		}
	}
	return out
}

func (s *memStore) credit(walletID string, amountPence, stars int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	if s.creditErr != nil {
		return nil, s.creditErr
	}
	wallet, ok := s.wallets[walletID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	wallet.BalancePence += amountPence
	wallet.BalanceStars += stars
	s.txs = append(s.txs, &entity.Transaction{
		ID:          s.nextID("tx"),
		WalletID:    walletID,
		Type:        entity.TransactionCredit,
		AmountPence: amountPence,
		Stars:       stars,
		Source:      source,
		Meta:        meta,
		CreatedAt:   time.Now().UTC(),
	})
	snapshot := *wallet
	return &snapshot, nil
}

func (s *memStore) debit(walletID string, amountPence int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	wallet, ok := s.wallets[walletID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if wallet.BalancePence < amountPence {
		return nil, entity.ErrInsufficientFunds
	}
	wallet.BalancePence -= amountPence
	s.txs = append(s.txs, &entity.Transaction{
		ID:          s.nextID("tx"),
		WalletID:    walletID,
		Type:        entity.TransactionDebit,
		AmountPence: amountPence,
		Source:      source,
		Meta:        meta,
		CreatedAt:   time.Now().UTC(),
	})
	snapshot := *wallet
	return &snapshot, nil
}

// FamilyRepository

type fakeFamilyRepo struct{ s *memStore }

func (r fakeFamilyRepo) GetSettings(familyID string) (*entity.FamilySettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings != nil {
		snapshot := *r.s.settings
		return &snapshot, nil
	}
	return &entity.FamilySettings{FamilyID: familyID, StarRatePence: 10}, nil
}

func (r fakeFamilyRepo) GetChild(familyID, childID string) (*entity.Child, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	child, ok := r.s.children[childID]
	if !ok || child.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	return child, nil
}

func (r fakeFamilyRepo) ListChildren(familyID string) ([]*entity.Child, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Child
	for _, child := range r.s.children {
		if child.FamilyID == familyID {
			out = append(out, child)
		}
	}
	return out, nil
}

// ChoreRepository

type fakeChoreRepo struct{ s *memStore }

func (r fakeChoreRepo) Create(chore *entity.Chore) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chore.ID = r.s.nextID("chore")
	r.s.chores[chore.ID] = chore
	return nil
}

func (r fakeChoreRepo) GetByID(familyID, choreID string) (*entity.Chore, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chore, ok := r.s.chores[choreID]
	if !ok || chore.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	return chore, nil
}

func (r fakeChoreRepo) ListByFamily(familyID string, activeOnly bool) ([]*entity.Chore, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Chore
	for _, chore := range r.s.chores {
		if chore.FamilyID == familyID && (!activeOnly || chore.Active) {
			out = append(out, chore)
		}
	}
	return out, nil
}

// AssignmentRepository

type fakeAssignmentRepo struct{ s *memStore }

func (r fakeAssignmentRepo) Create(assignment *entity.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	assignment.ID = r.s.nextID("assignment")
	r.s.assignments[assignment.ID] = assignment
	return nil
}

func (r fakeAssignmentRepo) GetByID(familyID, assignmentID string) (*entity.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	assignment, ok := r.s.assignments[assignmentID]
	if !ok || assignment.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	return assignment, nil
}

func (r fakeAssignmentRepo) ListByFamily(familyID string) ([]*entity.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Assignment
	for _, a := range r.s.assignments {
		if a.FamilyID == familyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r fakeAssignmentRepo) ListByChild(familyID, childID string) ([]*entity.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Assignment
	for _, a := range r.s.assignments {
		if a.FamilyID == familyID && (a.ChildID == "" || a.ChildID == childID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r fakeAssignmentRepo) Delete(familyID, assignmentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	assignment, ok := r.s.assignments[assignmentID]
	if !ok || assignment.FamilyID != familyID {
		return entity.ErrNotFound
	}
	delete(r.s.assignments, assignmentID)
	return nil
}

// BidRepository

type fakeBidRepo struct{ s *memStore }

func (r fakeBidRepo) Create(bid *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bid.ID = r.s.nextID("bid")
	// Strictly increasing creation times so tie-breaks are deterministic.
	bid.CreatedAt = time.Unix(int64(r.s.seq), 0).UTC()
	r.s.bids = append(r.s.bids, bid)
	return nil
}

func (r fakeBidRepo) ListByAssignment(assignmentID string) ([]*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bidsFor(assignmentID), nil
}

// StreakRepository

type fakeStreakRepo struct{ s *memStore }

func (r fakeStreakRepo) Get(familyID, childID, choreID string) (*entity.Streak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	streak, ok := r.s.streaks[streakKey(childID, choreID)]
	if !ok {
		return nil, nil
	}
	snapshot := *streak
	return &snapshot, nil
}

func (r fakeStreakRepo) ListByChild(familyID, childID string) ([]*entity.Streak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Streak
	for _, streak := range r.s.streaks {
		if streak.FamilyID == familyID && streak.ChildID == childID {
			snapshot := *streak
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

// WalletRepository

type fakeWalletRepo struct{ s *memStore }

func (r fakeWalletRepo) GetOrCreate(familyID, childID string) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.wallets {
		if w.FamilyID == familyID && w.ChildID == childID {
			snapshot := *w
			return &snapshot, nil
		}
	}
	wallet := &entity.Wallet{ID: r.s.nextID("wallet"), FamilyID: familyID, ChildID: childID}
	r.s.wallets[wallet.ID] = wallet
	snapshot := *wallet
	return &snapshot, nil
}

func (r fakeWalletRepo) GetByChild(familyID, childID string) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.wallets {
		if w.FamilyID == familyID && w.ChildID == childID {
			snapshot := *w
			return &snapshot, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r fakeWalletRepo) Credit(walletID string, amountPence, stars int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.credit(walletID, amountPence, stars, source, meta)
}

func (r fakeWalletRepo) Debit(walletID string, amountPence int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.debit(walletID, amountPence, source, meta)
}

func (r fakeWalletRepo) Transactions(walletID string, limit, offset int) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		if r.s.txs[i].WalletID == walletID {
			out = append(out, r.s.txs[i])
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeWalletRepo) RecentByMetaType(walletID, metaType string, since time.Time) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for _, tx := range r.s.txs {
		if tx.WalletID == walletID && tx.Meta.Type == metaType && !tx.CreatedAt.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// CompletionRepository

type fakeCompletionRepo struct{ s *memStore }

func (r fakeCompletionRepo) CreateWithStreak(completion *entity.Completion, streak *entity.Streak, gate func(bids []*entity.Bid) error) (*entity.Completion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if gate != nil {
		if err := gate(r.s.bidsFor(completion.AssignmentID)); err != nil {
			return nil, err
		}
	}
	completion.ID = r.s.nextID("completion")
	r.s.completions[completion.ID] = completion
	if streak != nil {
		snapshot := *streak
		r.s.streaks[streakKey(streak.ChildID, streak.ChoreID)] = &snapshot
	}
	return completion, nil
}

func (r fakeCompletionRepo) GetByID(familyID, completionID string) (*entity.Completion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	completion, ok := r.s.completions[completionID]
	if !ok || completion.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	snapshot := *completion
	return &snapshot, nil
}

func (r fakeCompletionRepo) ListByChild(familyID, childID string, limit, offset int) ([]*entity.Completion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Completion
	for _, c := range r.s.completions {
		if c.FamilyID == familyID && c.ChildID == childID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCompletionRepo) ListPending(familyID string) ([]*entity.Completion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Completion
	for _, c := range r.s.completions {
		if c.FamilyID == familyID && c.Status == entity.CompletionPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCompletionRepo) SubmissionTimes(familyID, childID string) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []time.Time
	for _, c := range r.s.completions {
		if c.FamilyID == familyID && c.ChildID == childID && c.Status != entity.CompletionRejected {
			out = append(out, c.SubmittedAt)
		}
	}
	return out, nil
}

func (r fakeCompletionRepo) ApprovedDays(familyID, childID string, from, to time.Time) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.approvedDays(familyID, childID, from, to), nil
}

func (s *memStore) approvedDays(familyID, childID string, from, to time.Time) []time.Time {
	var out []time.Time
	for _, c := range s.completions {
		// [from, to), matching the real query
		if c.FamilyID == familyID && c.ChildID == childID && c.Status == entity.CompletionApproved &&
			!c.SubmittedAt.Before(from) && c.SubmittedAt.Before(to) {
			out = append(out, c.SubmittedAt)
		}
	}
	return out
}

func (r fakeCompletionRepo) CountApprovedInRange(familyID, childID string, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.approvedDays(familyID, childID, from, to)), nil
}

func (r fakeCompletionRepo) ApplyApproval(plan *persistent.ApprovalPlan) (*persistent.ApprovalResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	completion, ok := r.s.completions[plan.CompletionID]
	if !ok || completion.FamilyID != plan.FamilyID {
		return nil, entity.ErrNotFound
	}
	if completion.Status != entity.CompletionPending {
		return nil, entity.ErrAlreadyProcessed
	}

	wallet, err := r.s.credit(plan.WalletID, plan.RewardPence, plan.Stars, entity.SourceChoreReward, plan.RewardMeta)
	if err != nil {
		return nil, err
	}

	bonusApplied := false
	if plan.Bonus != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		dup := false
		for _, tx := range r.s.txs {
			if tx.WalletID == plan.WalletID && tx.Meta.Type == plan.Bonus.Meta.Type &&
				tx.Meta.StreakLength == plan.Bonus.Meta.StreakLength && !tx.CreatedAt.Before(since) {
				dup = true
				break
			}
		}
		if !dup {
			wallet, err = r.s.credit(plan.WalletID, plan.Bonus.MoneyPence, plan.Bonus.Stars, entity.SourceStreakBonus, plan.Bonus.Meta)
			if err != nil {
				return nil, err
			}
			bonusApplied = true
		}
	}

	now := time.Now().UTC()
	completion.Status = entity.CompletionApproved
	completion.ApprovedBy = plan.ApproverID
	completion.ProcessedAt = &now

	snapshot := *completion
	return &persistent.ApprovalResult{
		Completion:   &snapshot,
		Wallet:       wallet,
		BonusApplied: bonusApplied,
	}, nil
}

func (r fakeCompletionRepo) Reject(familyID, completionID, approverID, reason string) (*entity.Completion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	completion, ok := r.s.completions[completionID]
	if !ok || completion.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	if completion.Status != entity.CompletionPending {
		return nil, entity.ErrAlreadyProcessed
	}
	now := time.Now().UTC()
	completion.Status = entity.CompletionRejected
	completion.ApprovedBy = approverID
	completion.ProcessedAt = &now
	if reason != "" {
		completion.Note = "rejected: " + reason
	}
	snapshot := *completion
	return &snapshot, nil
}

// StarPurchaseRepository

type fakeStarPurchaseRepo struct{ s *memStore }

func (r fakeStarPurchaseRepo) Request(purchase *entity.StarPurchase, walletID string) (*persistent.StarPurchaseResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wallet, err := r.s.debit(walletID, purchase.AmountPence, entity.SourceStarPurchase, entity.TxMeta{
		Type: entity.SourceStarPurchase,
	})
	if err != nil {
		return nil, err
	}
	purchase.ID = r.s.nextID("purchase")
	purchase.CreatedAt = time.Now().UTC()
	r.s.purchases[purchase.ID] = purchase
	return &persistent.StarPurchaseResult{Purchase: purchase, Wallet: wallet}, nil
}

func (r fakeStarPurchaseRepo) settle(familyID, purchaseID, approverID, walletID string, approve bool) (*persistent.StarPurchaseResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	purchase, ok := r.s.purchases[purchaseID]
	if !ok || purchase.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	if purchase.Status != entity.StarPurchasePending {
		return nil, entity.ErrAlreadyProcessed
	}

	var wallet *entity.Wallet
	var err error
	if approve {
		wallet, err = r.s.credit(walletID, 0, purchase.StarsRequested, entity.SourceStarPurchase, entity.TxMeta{
			Type:           entity.SourceStarPurchase,
			StarPurchaseID: purchaseID,
		})
		purchase.Status = entity.StarPurchaseApproved
	} else {
		wallet, err = r.s.credit(walletID, purchase.AmountPence, 0, entity.SourceStarPurchaseRefund, entity.TxMeta{
			Type:           entity.SourceStarPurchaseRefund,
			StarPurchaseID: purchaseID,
		})
		purchase.Status = entity.StarPurchaseRejected
	}
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	purchase.ProcessedBy = approverID
	purchase.ProcessedAt = &now
	return &persistent.StarPurchaseResult{Purchase: purchase, Wallet: wallet}, nil
}

func (r fakeStarPurchaseRepo) Approve(familyID, purchaseID, approverID string, walletID string) (*persistent.StarPurchaseResult, error) {
	return r.settle(familyID, purchaseID, approverID, walletID, true)
}

func (r fakeStarPurchaseRepo) Reject(familyID, purchaseID, approverID string, walletID string) (*persistent.StarPurchaseResult, error) {
	return r.settle(familyID, purchaseID, approverID, walletID, false)
}

func (r fakeStarPurchaseRepo) GetByID(familyID, purchaseID string) (*entity.StarPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	purchase, ok := r.s.purchases[purchaseID]
	if !ok || purchase.FamilyID != familyID {
		return nil, entity.ErrNotFound
	}
	snapshot := *purchase
	return &snapshot, nil
}

func (r fakeStarPurchaseRepo) ListByChild(familyID, childID string) ([]*entity.StarPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StarPurchase
	for _, p := range r.s.purchases {
		if p.FamilyID == familyID && p.ChildID == childID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeStarPurchaseRepo) ListPending(familyID string) ([]*entity.StarPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StarPurchase
	for _, p := range r.s.purchases {
		if p.FamilyID == familyID && p.Status == entity.StarPurchasePending {
			out = append(out, p)
		}
	}
	return out, nil
}
