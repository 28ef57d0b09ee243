package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/padec243-alt/Padec-Connect-sub000/clients/gcp"
	"github.com/padec243-alt/Padec-Connect-sub000/envvars"
	"github.com/padec243-alt/Padec-Connect-sub000/services/blob"
	"github.com/padec243-alt/Padec-Connect-sub000/services/catalog"
	"github.com/padec243-alt/Padec-Connect-sub000/services/checkout"
	"github.com/padec243-alt/Padec-Connect-sub000/services/docstore"
	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
	"github.com/padec243-alt/Padec-Connect-sub000/services/session"
	"github.com/padec243-alt/Padec-Connect-sub000/services/user"
)

func main() {
	ctx := context.Background()
	env := envvars.GetEvn()

	firestoreClient, err := gcp.CreateFirestore(ctx, env.ProjectID, "")
	if err != nil {
		log.Fatalf("failed to create firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := gcp.CreateStorage(ctx)
	if err != nil {
		log.Fatalf("failed to create storage client: %v", err)
	}
	defer storageClient.Close()

	db := docstore.NewFirestore(firestoreClient)
	blobs, err := blob.NewService(storageClient, env.Bucket)
	if err != nil {
		log.Fatalf("failed to create blob service: %v", err)
	}

	var searchClient *search.APIClient
	if env.AlgoliaAppID != "" && env.AlgoliaAPIKey != "" {
		searchClient, err = search.NewClient(env.AlgoliaAppID, env.AlgoliaAPIKey)
		if err != nil {
			log.Fatalf("failed to create search client: %v", err)
		}
	}

	userService := user.NewService(db, blobs)
	identityService := identity.NewService(resty.New(), env.IdentityAPIKey, userService)
	sessionService := session.NewService(identityService, userService)
	catalogService := catalog.NewService(db, searchClient)
	checkoutService := checkout.NewService(db)

	if envvars.IsDev(env) {
		go func() {
			if err := catalogService.SeedDemoData(ctx); err != nil {
				slog.With("error", err.Error()).Error("failed to seed demo data")
			}
			if searchClient != nil {
				if err := catalogService.SyncSearchIndex(ctx); err != nil {
					slog.With("error", err.Error()).Error("failed to sync search index")
				}
			}
		}()
	}

	server := NewServer(identityService, userService, catalogService, checkoutService)
	server.SessionService = sessionService

	r := gin.Default()
	r.Use(cors.Default())
	server.RegisterRoutes(r)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:" + env.Port,
	}

	slog.Info("Starting HTTP server on port " + env.Port)
	log.Fatal(s.ListenAndServe())
}
