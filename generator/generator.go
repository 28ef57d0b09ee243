// Package generator produces demo catalog data for dev environments. It is
// never used in production paths; seeding is gated on the environment.
package generator

import (
	"fmt"
	"math/rand"
	"time"
)

var productAdjectives = []string{
	"Handwoven", "Organic", "Imported", "Artisan", "Traditional",
	"Premium", "Everyday", "Classic", "Fresh", "Homestyle",
	"Natural", "Authentic", "Small-batch", "Sun-dried", "Stone-ground",
}

var productNouns = []string{
	"Basket", "Coffee", "Fabric", "Spice Mix", "Palm Oil",
	"Cassava Flour", "Shea Butter", "Honey", "Dried Fish", "Peanut Paste",
	"Headwrap", "Sandals", "Tea Blend", "Hot Sauce", "Rice",
}

var categories = []string{
	"food", "clothing", "home", "beauty", "crafts",
}

var cities = []string{
	"Lisbon", "Porto", "Luanda", "Maputo", "Praia",
	"São Paulo", "Paris", "London",
}

var eventThemes = []string{
	"Community Dinner", "Live Music Night", "Language Exchange",
	"Business Networking", "Film Screening", "Street Food Festival",
}

var specialties = []string{
	"General Practice", "Dentistry", "Pediatrics", "Dermatology",
	"Physiotherapy", "Optometry",
}

var helperRoles = []string{
	"Nanny", "Elder Care", "Tutor", "House Help",
}

type source struct{ r *rand.Rand }

func newSource() source {
	return source{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var src = newSource()

func pick(items []string) string {
	return items[src.r.Intn(len(items))]
}

// ProductName combines a random adjective and noun ("Artisan Honey").
func ProductName() string {
	return fmt.Sprintf("%s %s", pick(productAdjectives), pick(productNouns))
}

// Category returns one of the demo catalog categories.
func Category() string {
	return pick(categories)
}

// City returns a demo city.
func City() string {
	return pick(cities)
}

// EventTitle returns a demo event title with the host city baked in.
func EventTitle(city string) string {
	return fmt.Sprintf("%s %s", city, pick(eventThemes))
}

// Specialty returns a demo health specialty.
func Specialty() string {
	return pick(specialties)
}

// HelperRole returns a demo family-assistance role.
func HelperRole() string {
	return pick(helperRoles)
}

// Price returns a demo price in [min, max), rounded to cents.
func Price(min, max float64) float64 {
	v := min + src.r.Float64()*(max-min)
	return float64(int(v*100)) / 100
}

// Quantity returns a demo count in [1, max].
func Quantity(max int) int {
	return 1 + src.r.Intn(max)
}
