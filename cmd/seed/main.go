package main

import (
	"flag"
	"fmt"
	"log"

	"chore-clash/internal/model"
	"chore-clash/pkg/config"
	"chore-clash/pkg/database"
)

// Seeds a demo family with two children, wallets, a set of chores and
// both direct and bidding-enabled assignments. Intended for local
// development against a freshly migrated database.
func main() {
	familyName := flag.String("family", "The Parkers", "name of the demo family")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	family := &model.FamilyModel{Name: *familyName}
	if err := db.Create(family).Error; err != nil {
		log.Fatalf("Failed to create family: %v", err)
	}

	settings := &model.FamilySettingsModel{
		FamilyID:           family.ID,
		ProtectionDays:     1,
		BonusEnabled:       true,
		BonusDays:          3,
		BonusStars:         5,
		BonusType:          "stars",
		StarRatePence:      cfg.DefaultStarRatePence,
		PerfectWeekEnabled: true,
		PerfectWeekStars:   10,
	}
	if err := db.Create(settings).Error; err != nil {
		log.Fatalf("Failed to create family settings: %v", err)
	}

	children := []*model.ChildModel{
		{FamilyID: family.ID, Name: "Maya"},
		{FamilyID: family.ID, Name: "Leo"},
	}
	for _, child := range children {
		if err := db.Create(child).Error; err != nil {
			log.Fatalf("Failed to create child %s: %v", child.Name, err)
		}
		wallet := &model.WalletModel{
			FamilyID:     family.ID,
			ChildID:      child.ID,
			BalancePence: 500,
		}
		if err := db.Create(wallet).Error; err != nil {
			log.Fatalf("Failed to create wallet for %s: %v", child.Name, err)
		}
	}

	chores := []*model.ChoreModel{
		{FamilyID: family.ID, Title: "Empty the dishwasher", RewardPence: 50, Frequency: "daily", Active: true},
		{FamilyID: family.ID, Title: "Take out the bins", RewardPence: 30, Frequency: "weekly", Active: true},
		{FamilyID: family.ID, Title: "Wash the car", RewardPence: 200, Frequency: "once", Active: true},
	}
	for _, chore := range chores {
		if err := db.Create(chore).Error; err != nil {
			log.Fatalf("Failed to create chore %q: %v", chore.Title, err)
		}
	}

	assignments := []*model.AssignmentModel{
		// Daily chore assigned to Maya directly
		{FamilyID: family.ID, ChoreID: chores[0].ID, ChildID: &children[0].ID},
		// Weekly chore open to the whole family
		{FamilyID: family.ID, ChoreID: chores[1].ID},
		// One-off chore up for bidding
		{FamilyID: family.ID, ChoreID: chores[2].ID, BiddingEnabled: true},
	}
	for _, assignment := range assignments {
		if err := db.Create(assignment).Error; err != nil {
			log.Fatalf("Failed to create assignment: %v", err)
		}
	}

	fmt.Printf("Seeded family %q (%s) with %d children, %d chores, %d assignments\n",
		*familyName, family.ID, len(children), len(chores), len(assignments))
	for _, child := range children {
		fmt.Printf("  child %s: %s\n", child.Name, child.ID)
	}
}
