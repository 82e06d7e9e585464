package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/jsonclient"
	"deskwise.io/infra/kvstore"
	"deskwise.io/infra/logtransports"
	"deskwise.io/itsm"
)

func initResolver() *itsm.Resolver {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("error loading .env file: %v\n(did you forget to copy `.env.example` to `.env` and substitute values?)", err)
	}

	deskURL := os.Getenv("DESKWISE_URL")
	apiKey := os.Getenv("DESKWISE_API_KEY")

	client := itsm.NewClient(deskURL, jsonclient.BasicAuth(apiKey, "X"))
	store := itsm.NewStore(kvstore.NewInMemoryProvider("sample"))
	return itsm.NewResolver(client, store)
}

func main() {
	ctx := context.Background()
	logtransports.InitLoggerAndTransportsForTools(dwlog.LogLevelInfo, "deskwise-sample")

	resolver := initResolver()

	// Warm both lookup caches up front the way a wizard does on load.
	warm := resolver.InitializeAllCaches(ctx)
	log.Printf("warmed caches: %d asset types, %d locations", warm.AssetTypes, warm.Locations)
	for _, e := range warm.Errors {
		log.Printf("warning: %s", e)
	}

	// Resolve a handful of IDs; unknown IDs come back as readable placeholders.
	for _, id := range []int64{1, 2, 42} {
		log.Printf("asset type %d -> %q", id, resolver.AssetTypeName(ctx, id))
		log.Printf("location %d -> %q", id, resolver.LocationName(ctx, id))
	}

	// Search twice with the same term; the second call is served from cache.
	assets := resolver.SearchAssets(ctx, "laptop", "name")
	log.Printf("search found %d assets", len(assets))
	for _, a := range assets {
		log.Printf("  %s managed by %s", a.Label(), resolver.ManagedByInfo(ctx, &a))
	}
	assets = resolver.SearchAssets(ctx, "LAPTOP", "name")
	log.Printf("cached search found %d assets", len(assets))

	log.Printf("successfully ran sample")
}
