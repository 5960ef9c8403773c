package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"review-trust-engine/internal/api"
	"review-trust-engine/internal/config"
	"review-trust-engine/internal/engine"
	"review-trust-engine/internal/sampledata"
)

var (
	mode       = flag.String("mode", "serve", "Operation mode: serve, demo")
	configFile = flag.String("config", "config.yaml", "Configuration file path")
	seed       = flag.Int64("seed", 42, "Random seed for demo data")
	help       = flag.Bool("help", false, "Show help")
)

func main() {
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	switch *mode {
	case "serve":
		runServeMode()
	case "demo":
		runDemoMode()
	default:
		log.Fatalf("Unknown mode: %s. Use 'serve' or 'demo'", *mode)
	}
}

func runServeMode() {
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.Default()
	}

	log.Printf("Starting %s", cfg.String())

	eng := engine.NewEngine(cfg.GetEngineConfig())
	defer eng.Close()

	server := api.NewServer(eng, cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runDemoMode() {
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.Default()
	}

	eng := engine.NewEngine(cfg.GetEngineConfig())
	defer eng.Close()

	generator := sampledata.NewGenerator(rand.New(rand.NewSource(*seed)))
	location := generator.Location()
	reviews := generator.SampleReviews(20)

	fmt.Printf("Analyzing %d sample reviews for %q\n\n", len(reviews), location.Name)

	ctx := context.Background()
	result, err := eng.AnalyzeBulkReviews(ctx, reviews, &location)
	if err != nil {
		log.Fatalf("Bulk analysis failed: %v", err)
	}

	for i, outcome := range result.IndividualResults {
		if !outcome.Success {
			fmt.Printf("%2d. failed: %s\n", i+1, outcome.Error)
			continue
		}
		a := outcome.Assessment
		fmt.Printf("%2d. trust=%.3f (%s) fake=%.3f auth=%.3f  %.60q\n",
			i+1, a.TrustScore, a.TrustCategory, a.FakeProbability, a.AuthenticityScore, reviews[i].Text)
	}

	fmt.Printf("\nLocation trust score: %.3f\n", result.LocationTrustScore)
	fmt.Printf("Summary: %d total, %d trusted, %d suspicious\n",
		result.Summary.TotalReviews, result.Summary.TrustedReviews, result.Summary.SuspiciousReviews)
	fmt.Printf("Anomalies detected: %d\n", len(result.Anomalies))
	for _, anomaly := range result.Anomalies {
		fmt.Printf("  %s at %s (severity %.2f)\n", anomaly.AnomalyType, anomaly.Timestamp, anomaly.Severity)
	}
	fmt.Printf("Processing time: %v\n", result.ProcessingTime)
}

func showHelp() {
	fmt.Println(`Review Trust Engine - Review Trustworthiness Scoring

USAGE:
    review-trust-engine [OPTIONS]

OPTIONS:
    -mode string
        Operation mode (default: serve)
        serve: REST API server for review analysis
        demo:  Analyze a generated batch of sample reviews

    -config string
        Configuration file path (default: config.yaml)

    -seed int
        Random seed for demo data (default: 42)

    -help
        Show this help message

EXAMPLES:

    # Start the API server
    ./review-trust-engine

    # Start with custom config
    ./review-trust-engine -config my-config.yaml

    # Run the demo analysis
    ./review-trust-engine -mode demo`)
}
