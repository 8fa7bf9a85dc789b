package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"workshop-feedback/pkg/cli"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
