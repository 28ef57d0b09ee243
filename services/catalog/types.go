package catalog

import "time"

// Product is a market listing.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	SellerID    string  `json:"sellerId"`
}

// HealthService is a bookable health appointment offering.
type HealthService struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Clinic    string  `json:"clinic"`
	City      string  `json:"city"`
	Price     float64 `json:"price"`
}

// Workspace is a coworking space listing.
type Workspace struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	PricePerDay float64  `json:"pricePerDay"`
	Amenities   []string `json:"amenities"`
}

// Event is a community event listing.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Venue string    `json:"venue"`
	City  string    `json:"city"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// HousingListing is a rental listing.
type HousingListing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	MonthlyRent float64 `json:"monthlyRent"`
	Bedrooms    int     `json:"bedrooms"`
	Furnished   bool    `json:"furnished"`
}

// VisaService is an immigration-assistance offering.
type VisaService struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	VisaType       string  `json:"visaType"`
	Price          float64 `json:"price"`
	ProcessingDays int     `json:"processingDays"`
}

// FamilyHelper is a family-assistance provider (childcare, elder care).
type FamilyHelper struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	City       string  `json:"city"`
	HourlyRate float64 `json:"hourlyRate"`
	Verified   bool    `json:"verified"`
}
