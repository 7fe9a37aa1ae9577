package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prabhav0001/DeeCee2-sub000/internal/appointment"
	"github.com/prabhav0001/DeeCee2-sub000/internal/config"
	"github.com/prabhav0001/DeeCee2-sub000/internal/db"
	"github.com/prabhav0001/DeeCee2-sub000/internal/notify"
	redisclient "github.com/prabhav0001/DeeCee2-sub000/internal/redis"
)

// The completion worker sweeps confirmed appointments whose day has passed
// into the completed state so operators see an accurate backlog.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("completion-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running completion worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// The sweep never contends for slots and never notifies, so it runs
	// without Redis or a dispatcher.
	repo := appointment.NewPgRepository(pgPool)
	svc := appointment.NewService(repo, redisclient.NopLocker{}, nil, notify.NopDispatcher{}, appointment.StatusConfirmed)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping completion worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	today := time.Now().Format("2006-01-02")
	if err := svc.CompletePastAppointments(runCtx, today); err != nil {
		log.Printf("completion run error: %v", err)
		return
	}
	log.Printf("completion run complete in %s", time.Since(start))
}
