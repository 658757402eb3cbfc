package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cuctask_bot/internal/db"
	"cuctask_bot/internal/domain"
	"cuctask_bot/internal/logger"
	"cuctask_bot/internal/repository"

	"github.com/joho/godotenv"
)

// seed_tasks inserts a few demo tasks for a chat so reminders can be tried
// end to end. The first task is due to remind two minutes from now.
func main() {
	_ = godotenv.Load()

	channel := flag.String("channel", "", "telegram chat id the tasks belong to")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	if *channel == "" {
		logger.Fatal("-channel is required")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewTaskRepository(pool)
	ctx := context.Background()

	now := time.Now().Truncate(time.Minute)
	remind := now.Add(2 * time.Minute)
	deadline := now.Add(time.Hour)

	seeds := []*domain.Task{
		{Content: "Try the reminder", Deadline: &deadline, RemindAt: &remind, ChannelID: channel},
		{Content: "Task without times", ChannelID: channel},
	}
	for _, t := range seeds {
		if err := repo.Create(ctx, t); err != nil {
			logger.Fatal("create task failed", "error", err)
		}
		fmt.Printf("created task id=%d content=%q\n", t.ID, t.Content)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		logger.Fatal("list tasks failed", "error", err)
	}
	fmt.Printf("store now holds %d tasks\n", len(all))
}
