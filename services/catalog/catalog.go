// Package catalog reads the business collections: market products plus the
// health, coworking, events, housing, visa and family-help listings.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/rs/zerolog/log"

	"github.com/padec243-alt/Padec-Connect-sub000/generator"
	"github.com/padec243-alt/Padec-Connect-sub000/services/docstore"
	"github.com/padec243-alt/Padec-Connect-sub000/set"
	"github.com/padec243-alt/Padec-Connect-sub000/utils"
)

type Service interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id string) (*Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
	// Categories returns the distinct product categories, sorted.
	Categories(ctx context.Context) ([]string, error)

	HealthServices(ctx context.Context) ([]HealthService, error)
	Workspaces(ctx context.Context) ([]Workspace, error)
	Events(ctx context.Context) ([]Event, error)
	HousingListings(ctx context.Context) ([]HousingListing, error)
	VisaServices(ctx context.Context) ([]VisaService, error)
	FamilyHelpers(ctx context.Context) ([]FamilyHelper, error)

	// SyncSearchIndex pushes the product collection to the search index.
	SyncSearchIndex(ctx context.Context) error
	// Search queries the product index.
	Search(ctx context.Context, query string) ([]Product, error)

	// SeedDemoData fills empty collections with generated listings. Dev
	// environments only; the caller gates on environment.
	SeedDemoData(ctx context.Context) error
}

const (
	productCollection   = "products"
	healthCollection    = "healthServices"
	workspaceCollection = "workspaces"
	eventCollection     = "events"
	housingCollection   = "housingListings"
	visaCollection      = "visaServices"
	helperCollection    = "familyHelpers"

	productIndex = "product_index"
)

type service struct {
	db           docstore.Store
	searchClient *search.APIClient
}

var _ Service = (*service)(nil)

var NotFound = errors.New("listing not found")

// ErrSearchUnavailable is returned when no search client is configured.
var ErrSearchUnavailable = errors.New("search is not configured")

// NewService builds the catalog. searchClient may be nil when search is not
// configured for the environment.
func NewService(db docstore.Store, searchClient *search.APIClient) Service {
	return &service{db: db, searchClient: searchClient}
}

func (s *service) Products(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, s.db, productCollection)
}

func (s *service) Product(ctx context.Context, id string) (*Product, error) {
	doc, err := s.db.GetByID(ctx, productCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if doc == nil {
		return nil, NotFound
	}
	p := &Product{}
	if err := utils.DecodeInto(doc, p); err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

func (s *service) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	docs, err := s.db.Query(ctx, productCollection, docstore.Filter{
		Path:  "category",
		Op:    "==",
		Value: category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return decodeAll[Product](docs)
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	found := set.New[string]()
	for _, p := range products {
		if p.Category != "" {
			found.Add(p.Category)
		}
	}
	return set.Sorted(found), nil
}

func (s *service) HealthServices(ctx context.Context) ([]HealthService, error) {
	return list[HealthService](ctx, s.db, healthCollection)
}

func (s *service) Workspaces(ctx context.Context) ([]Workspace, error) {
	return list[Workspace](ctx, s.db, workspaceCollection)
}

func (s *service) Events(ctx context.Context) ([]Event, error) {
	return list[Event](ctx, s.db, eventCollection)
}

func (s *service) HousingListings(ctx context.Context) ([]HousingListing, error) {
	return list[HousingListing](ctx, s.db, housingCollection)
}

func (s *service) VisaServices(ctx context.Context) ([]VisaService, error) {
	return list[VisaService](ctx, s.db, visaCollection)
}

func (s *service) FamilyHelpers(ctx context.Context) ([]FamilyHelper, error) {
	return list[FamilyHelper](ctx, s.db, helperCollection)
}

func (s *service) SyncSearchIndex(ctx context.Context) error {
	if s.searchClient == nil {
		return ErrSearchUnavailable
	}
	products, err := s.Products(ctx)
	if err != nil {
		return err
	}
	records := make([]map[string]any, 0, len(products))
	for _, p := range products {
		records = append(records, map[string]any{
			"objectID": p.ID,
			"name":     p.Name,
			"category": p.Category,
			"price":    p.Price,
			"imageUrl": p.ImageURL,
		})
	}
	result, err := s.searchClient.SaveObjects(productIndex, records)
	if err != nil {
		return fmt.Errorf("failed to push products to search: %w", err)
	}
	log.Info().Int("batches", len(result)).Int("products", len(records)).Msg("search index synced")
	return nil
}

func (s *service) Search(ctx context.Context, query string) ([]Product, error) {
	if s.searchClient == nil {
		return nil, ErrSearchUnavailable
	}
	searchParams := search.SearchParams{
		SearchParamsObject: search.
			NewEmptySearchParamsObject().
			SetQuery(query),
	}
	response, err := s.searchClient.SearchSingleIndex(
		s.searchClient.NewApiSearchSingleIndexRequest(productIndex).WithSearchParams(&searchParams),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	results := make([]Product, 0, len(response.Hits))
	for _, hit := range response.Hits {
		var p Product
		// Marshal to JSON then unmarshal to struct
		jsonData, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(jsonData, &p); err != nil {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

// SeedDemoData populates empty collections with generated listings so a
// fresh dev environment has something to browse.
func (s *service) SeedDemoData(ctx context.Context) error {
	products, err := s.db.GetAll(ctx, productCollection)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	for i := 0; i < 12; i++ {
		if err := s.seedOne(ctx, productCollection, Product{
			Name:     generator.ProductName(),
			Price:    generator.Price(5, 150),
			Category: generator.Category(),
		}); err != nil {
			return err
		}
	}
	for i := 0; i < 4; i++ {
		city := generator.City()
		if err := s.seedOne(ctx, healthCollection, HealthService{
			Name:      generator.Specialty() + " Consultation",
			Specialty: generator.Specialty(),
			City:      city,
			Price:     generator.Price(20, 120),
		}); err != nil {
			return err
		}
		if err := s.seedOne(ctx, eventCollection, Event{
			Title: generator.EventTitle(city),
			City:  city,
			Date:  time.Now().AddDate(0, 0, generator.Quantity(60)),
			Price: generator.Price(0, 40),
		}); err != nil {
			return err
		}
		if err := s.seedOne(ctx, housingCollection, HousingListing{
			Title:       "Apartment in " + city,
			City:        city,
			MonthlyRent: generator.Price(400, 1800),
			Bedrooms:    generator.Quantity(4),
		}); err != nil {
			return err
		}
		if err := s.seedOne(ctx, workspaceCollection, Workspace{
			Name:        city + " Cowork Hub",
			Location:    city,
			PricePerDay: generator.Price(8, 35),
		}); err != nil {
			return err
		}
		if err := s.seedOne(ctx, helperCollection, FamilyHelper{
			Name:       "Helper " + city,
			Role:       generator.HelperRole(),
			City:       city,
			HourlyRate: generator.Price(6, 25),
		}); err != nil {
			return err
		}
	}
	for _, visaType := range []string{"Work", "Student", "Family Reunification"} {
		if err := s.seedOne(ctx, visaCollection, VisaService{
			Name:           visaType + " Visa Assistance",
			VisaType:       visaType,
			Price:          generator.Price(80, 400),
			ProcessingDays: generator.Quantity(90),
		}); err != nil {
			return err
		}
	}
	log.Info().Msg("seeded demo catalog data")
	return nil
}

func (s *service) seedOne(ctx context.Context, collection string, v any) error {
	doc, err := utils.EncodeToMap(v)
	if err != nil {
		return err
	}
	delete(doc, "id")
	id, err := s.db.Add(ctx, collection, doc)
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", collection, err)
	}
	return s.db.Update(ctx, collection, id, docstore.Document{"id": id})
}

func list[T any](ctx context.Context, db docstore.Store, collection string) ([]T, error) {
	docs, err := db.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return decodeAll[T](docs)
}

func decodeAll[T any](docs []docstore.Document) ([]T, error) {
	results := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := utils.DecodeInto(doc, &item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, nil
}
