package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prabhav0001/DeeCee2-sub000/internal/appointment"
	"github.com/prabhav0001/DeeCee2-sub000/internal/db"
	"github.com/prabhav0001/DeeCee2-sub000/internal/schedule"
)

// Bootstraps the schema and fills the next few weeks with fake bookings so
// the availability view has something to suppress.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	days := getInt("SEED_DAYS", 14)
	perDay := getInt("SEED_BOOKINGS_PER_DAY", 3)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := ensureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	log.Println("schema ready")

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), pool, days, perDay); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// ensureSchema creates the tables and, critically, the partial unique index
// that makes the commit's check-and-insert atomic.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS appointments (
			id               uuid PRIMARY KEY,
			service          text NOT NULL,
			location         text NOT NULL,
			appointment_date text NOT NULL,
			slot_time        text NOT NULL,
			customer_name    text NOT NULL,
			email            text NOT NULL,
			phone            text NOT NULL,
			notes            text NOT NULL DEFAULT '',
			status           text NOT NULL,
			created_at       timestamptz NOT NULL DEFAULT now(),
			updated_at       timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS appointments_slot_key
			ON appointments (appointment_date, location, slot_time)
			WHERE status <> 'cancelled'`,
		`CREATE TABLE IF NOT EXISTS appointment_events (
			id             bigserial PRIMARY KEY,
			event_type     text NOT NULL,
			appointment_id uuid,
			payload        jsonb,
			created_at     timestamptz NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, days, perDay int) error {
	repo := appointment.NewPgRepository(pool)

	var inserted, skipped int
	start := time.Now()

	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")

		for _, location := range appointment.Locations {
			blocked := schedule.BlockedIndices(date, location)

			for i := 0; i < perDay; i++ {
				idx := gofakeit.Number(0, schedule.SlotCount()-1)
				if blocked[idx] {
					continue
				}

				a := &appointment.Appointment{
					ID:       uuid.New(),
					Service:  appointment.Services[gofakeit.Number(0, len(appointment.Services)-1)],
					Location: location,
					Date:     date,
					Time:     schedule.Slots()[idx],
					Name:     gofakeit.Name(),
					Email:    gofakeit.Email(),
					Phone:    fmt.Sprintf("%010d", gofakeit.Number(6000000000, 9999999999)),
					Notes:    gofakeit.Sentence(8),
					Status:   appointment.StatusConfirmed,
				}

				err := repo.TryReserve(ctx, a)
				if err != nil {
					if errors.Is(err, appointment.ErrSlotTaken) {
						skipped++
						continue
					}
					return err
				}
				inserted++
			}
		}
	}

	log.Printf("appointments seeded: %d inserted, %d slot collisions skipped", inserted, skipped)
	return nil
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
