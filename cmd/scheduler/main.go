package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/odelarosa/tuition-engine/internal/config"
	"github.com/odelarosa/tuition-engine/internal/repository"
	"github.com/odelarosa/tuition-engine/internal/service"
)

func main() {
	log.Println("Starting receivables scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	receivables := service.NewReceivableService(
		repository.NewContractRepository(db),
		repository.NewInstallmentRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewTxManager(db),
		nil, // no cache involvement in the batch path
		cfg,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job marking installments overdue once their due date passes
	_, err = c.AddFunc(cfg.Scheduler.OverdueCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		count, err := receivables.MarkOverdueInstallments(ctx)
		if err != nil {
			log.Printf("Overdue marking job failed: %v", err)
			return
		}
		log.Printf("Overdue marking job done: %d installment(s) flagged", count)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue marking job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
