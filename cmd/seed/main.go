// Package main seeds a development database with an issuer, its
// starting capital, a collector and a couple of borrowers so that
// the API can be exercised immediately.
package main

import (
	"context"
	"log"

	"lendcore/internal/clock"
	"lendcore/internal/config"
	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	ctx := context.Background()
	db := repositories.DB

	issuer := models.Issuer{Name: "Demo Capital Ltd", Phone: "+10000000001"}
	if err := db.Where(models.Issuer{Phone: issuer.Phone}).FirstOrCreate(&issuer).Error; err != nil {
		log.Fatalf("failed to seed issuer: %v", err)
	}

	agent := models.Agent{IssuerID: issuer.ID, Name: "Field Agent One", Phone: "+10000000002"}
	if err := db.Where(models.Agent{Phone: agent.Phone}).FirstOrCreate(&agent).Error; err != nil {
		log.Fatalf("failed to seed agent: %v", err)
	}

	borrowers := []models.Borrower{
		{Name: "Asha Stores", Phone: "+10000000003", AgentID: agent.ID},
		{Name: "Juma Produce", Phone: "+10000000004", AgentID: agent.ID},
	}
	for i := range borrowers {
		if err := db.Where(models.Borrower{Phone: borrowers[i].Phone}).FirstOrCreate(&borrowers[i]).Error; err != nil {
			log.Fatalf("failed to seed borrower: %v", err)
		}
	}

	store := repositories.NewStore(db)
	ledgerService := ledger.NewService()
	startingCapital := config.GetDecimalEnv("SEED_CAPITAL", "100000.00")

	err := store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		_, err := ledgerService.IssueCapital(ctx, tx, issuer.ID, startingCapital, clock.System().Now())
		return err
	})
	if err != nil {
		if err == ledger.ErrCapitalRecordExists {
			log.Println("capital record already present, skipping")
		} else {
			log.Fatalf("failed to seed capital: %v", err)
		}
	}

	log.Printf("seeded issuer=%d agent=%d borrowers=%d", issuer.ID, agent.ID, len(borrowers))
}
