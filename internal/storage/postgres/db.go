package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

const connectAttempts = 5

// Connect opens dsn and waits for the server to answer a ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db connection: %w", err)
	}

	for i := 0; i < connectAttempts; i++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		log.Printf("Waiting for DB... (%d/%d): %v", i+1, connectAttempts, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Println("Successfully connected to database")
	return db, nil
}
