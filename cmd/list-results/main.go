package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		log.Fatalf("usage: list-results <actor-id>")
	}
	actorID := os.Args[1]

	// Set up Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)
	defer client.Close()

	// Test connection
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	// Zero keeps the default TTL; it only matters for writes
	repo := testresults.NewRedis(client, 0)

	results, err := repo.ListByActor(ctx, actorID)
	if err != nil {
		log.Fatalf("Failed to list results: %v", err)
	}

	fmt.Printf("Found %d results for %s:\n", len(results), actorID)
	for _, result := range results {
		fmt.Printf("  %s  %s  %-12s modifier=%+d state=%s  %s - %s\n",
			result.ResolvedAt.Format("2006-01-02 15:04"),
			result.ID,
			result.Difficulty(),
			result.Modifier(),
			result.State,
			result.Title,
			result.Subject)
	}
}
