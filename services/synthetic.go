// ABOUTME: Synthetic catalog generator for upstream outages and empty feeds
// ABOUTME: Fabricates internally consistent product batches from static reference tables

package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skolesnik/shinshop/backend/models"
)

// brandLine is one reference brand with its model names for a given
// season/category. Models are assigned cyclically over the batch.
type brandLine struct {
	brand  string
	models []string
}

var brandCountry = map[string]string{
	"Nokian":      "Финляндия",
	"Continental": "Германия",
	"Michelin":    "Франция",
	"Gislaved":    "Германия",
	"Cordiant":    "Россия",
	"Bridgestone": "Япония",
	"Pirelli":     "Италия",
	"Yokohama":    "Япония",
	"Triangle":    "Китай",
	"Вектор":      "Россия",
	"Starleks":    "Россия",
	"Bimecc":      "Италия",
	"Autel":       "Китай",
	"CUB":         "Тайвань",
	"Huf":         "Германия",
	"Trebl":       "Россия",
	"ViaTech":     "Россия",
}

var winterTireLines = []brandLine{
	{"Nokian", []string{"Hakkapeliitta R5", "Nordman 8"}},
	{"Continental", []string{"IceContact 3", "VikingContact 7"}},
	{"Michelin", []string{"X-Ice North 4", "X-Ice Snow"}},
	{"Gislaved", []string{"Nord*Frost 200"}},
	{"Cordiant", []string{"Snow Cross 2"}},
}

var summerTireLines = []brandLine{
	{"Michelin", []string{"Primacy 4", "Pilot Sport 5"}},
	{"Continental", []string{"PremiumContact 7"}},
	{"Bridgestone", []string{"Turanza T005"}},
	{"Pirelli", []string{"Cinturato P7"}},
	{"Cordiant", []string{"Sport 3"}},
}

var allseasonTireLines = []brandLine{
	{"Michelin", []string{"CrossClimate 2"}},
	{"Continental", []string{"AllSeasonContact 2"}},
	{"Yokohama", []string{"BluEarth-4S AW21"}},
	{"Triangle", []string{"SeasonX TA01"}},
}

var fastenerLines = []brandLine{
	{"Вектор", []string{"Болт М12x1.5", "Болт М14x1.5", "Гайка М12x1.25"}},
	{"Starleks", []string{"Секретка М12x1.5", "Гайка М14x1.5"}},
	{"Bimecc", []string{"Болт М12x1.25", "Шпилька М12x1.5"}},
}

var sensorLines = []brandLine{
	{"Autel", []string{"MX-Sensor 433МГц", "MX-Sensor 315МГц"}},
	{"CUB", []string{"Uni-Sensor 433МГц"}},
	{"Huf", []string{"IntelliSens UVS4040"}},
}

var spareWheelLines = []brandLine{
	{"Trebl", []string{"Докатка R15 4x100", "Докатка R16 5x114.3"}},
	{"ViaTech", []string{"Докатка R17 5x112"}},
}

// Generator fabricates plausible catalog batches when the real upstream is
// unavailable or returns nothing. Randomness is injectable so tests can
// pin jittered values.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator from the given source. A nil source
// means time-seeded randomness.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Tires generates 8-12 tires honoring the literal dimension and season
// filters. Exactly the first item is flagged as item of the day.
func (g *Generator) Tires(f models.Filters) []models.Product {
	season := NormalizeSeason(f.Season)
	dims := dimensionsFromFilters(f)

	var lines []brandLine
	switch season {
	case models.SeasonSummer:
		lines = summerTireLines
	case models.SeasonAllSeason:
		lines = allseasonTireLines
	default:
		lines = winterTireLines
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	count := 8 + g.rng.Intn(5)
	products := make([]models.Product, 0, count)

	for i := 0; i < count; i++ {
		line := lines[i%len(lines)]
		model := line.models[(i/len(lines))%len(line.models)]

		base := defaultTirePrice(dims)
		price := g.jitter(base, 0.10)

		p := models.Product{
			ID:              uuid.NewString(),
			DisplayName:     fmt.Sprintf("%s %s %d/%d R%d", line.brand, model, dims.Width, dims.Height, dims.Diameter),
			Price:           price,
			Dimensions:      dims,
			Season:          season,
			Brand:           line.brand,
			Model:           model,
			CountryOfOrigin: brandCountry[line.brand],
			Stock:           2 + g.rng.Intn(29),
			ItemOfDay:       i == 0,
		}
		// Studs only make sense on winter tires.
		if season == models.SeasonWinter {
			p.Features.Spike = g.rng.Intn(2) == 0
		}
		p.Features.RunFlat = g.rng.Intn(10) == 0

		products = append(products, p)
	}

	return products
}

// Fasteners generates 6-10 wheel fasteners for the requested sub-category.
func (g *Generator) Fasteners(f models.Filters) []models.Product {
	return g.accessories(fastenerLines, f.Category, 150, 750)
}

// Sensors generates 6-10 tire pressure sensors.
func (g *Generator) Sensors(f models.Filters) []models.Product {
	return g.accessories(sensorLines, f.Category, 2500, 3500)
}

// SpareWheels generates 6-10 spare-wheel items.
func (g *Generator) SpareWheels(f models.Filters) []models.Product {
	return g.accessories(spareWheelLines, f.Category, 4200, 2800)
}

// accessories is the shared batch builder for the non-tire feeds.
// Price is basePrice plus a random spread of up to priceSpread.
func (g *Generator) accessories(lines []brandLine, category string, basePrice, priceSpread int) []models.Product {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := 6 + g.rng.Intn(5)
	products := make([]models.Product, 0, count)

	for i := 0; i < count; i++ {
		line := lines[i%len(lines)]
		model := line.models[(i/len(lines))%len(line.models)]

		name := line.brand + " " + model
		if category != "" {
			name = name + " (" + category + ")"
		}

		products = append(products, models.Product{
			ID:              uuid.NewString(),
			DisplayName:     name,
			Price:           float64(basePrice + g.rng.Intn(priceSpread+1)),
			Brand:           line.brand,
			Model:           model,
			CountryOfOrigin: brandCountry[line.brand],
			Stock:           2 + g.rng.Intn(29),
		})
	}

	return products
}

// jitter returns base shifted by a random fraction in [-spread, +spread].
func (g *Generator) jitter(base float64, spread float64) float64 {
	factor := 1 + (g.rng.Float64()*2-1)*spread
	// Round to whole rubles; fractional kopecks look fake on price tags.
	return float64(int(base*factor + 0.5))
}
