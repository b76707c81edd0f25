package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dixter999/news-sentiment-sub000/aggregator"
	"github.com/Dixter999/news-sentiment-sub000/cronjobs"
	"github.com/Dixter999/news-sentiment-sub000/db"
	"github.com/Dixter999/news-sentiment-sub000/imagefetch"
	"github.com/Dixter999/news-sentiment-sub000/llm"
	"github.com/Dixter999/news-sentiment-sub000/processor"
	"github.com/Dixter999/news-sentiment-sub000/routes"
	"github.com/Dixter999/news-sentiment-sub000/sentiment"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Print and check env
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}
	fmt.Println("OPENAI_API_KEY loaded")

	model := os.Getenv("OPENAI_MODEL")
	if model != "" {
		fmt.Println("OPENAI_MODEL: ", model)
	}

	// Init firestore
	ctx := context.Background()
	firestoreClient, err := db.InitFirestore(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer firestoreClient.Close()

	// Wire the scoring pipeline
	modelClient := llm.NewOpenAIClient(apiKey, model)
	fetcher := imagefetch.NewFetcher(10*time.Second, 3, 500*time.Millisecond)
	analyzer := sentiment.NewAnalyzer(modelClient, fetcher)

	proc := processor.New(analyzer, firestoreClient)
	agg := aggregator.New(firestoreClient)

	// Initialize cron jobs
	cronjobs.InitCronJobs(proc, agg)

	r := routes.SetupRouter(firestoreClient, proc, agg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
