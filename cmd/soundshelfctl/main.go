package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"soundshelf/shared/go/logging"
)

func main() {
	_ = godotenv.Load("config/local.env")

	logger := logging.New(logging.Config{Level: "info", Format: "text", Output: os.Stderr})
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.Command().Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err, "soundshelfctl failed")
	}
}
