// ABOUTME: End-to-end tests for the catalog API over fake upstreams
// ABOUTME: Exercises handler, pipeline, normalization, fallback, and classification together

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skolesnik/shinshop/backend/models"
)

func getCatalog(t *testing.T, api *httptest.Server, path string) models.CatalogResponse {
	t.Helper()

	resp, err := http.Get(api.URL + path)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var out models.CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	return out
}

func TestE2E_TiresFromUpstream(t *testing.T) {
	tireServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "static-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"tires":[
			{"id":"t1","brand":"Nokian","model":"Hakkapeliitta R5","price":9890,"width":205,"height":55,"diameter":16,"season":"зима","image":"abc123","supplier":"tireshop"},
			{"id":"t2","brand":"Cordiant","model":"Snow Cross 2","price":5400,"width":205,"height":55,"diameter":16,"season":"w","stocks":{"Московское шоссе":3}}
		]}`))
	}))
	defer tireServer.Close()

	backOffice := fakeBackOffice(t, nil)
	defer backOffice.Close()

	api := newAPIServer(t, backOffice.URL, tireServer.URL)

	resp := getCatalog(t, api, "/api/v1/catalog/tires?season=w&width=205&height=55&diameter=16")

	if resp.Synthetic {
		t.Error("Expected real upstream data")
	}
	if len(resp.Products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(resp.Products))
	}

	p := resp.Products[0]
	if p.Season != models.SeasonWinter {
		t.Errorf("Expected зима to normalize to winter, got %s", p.Season)
	}
	if p.ImageURL != "https://cdn.shinshop.ru/images/abc123.jpg" {
		t.Errorf("Expected bare asset id rewritten, got %q", p.ImageURL)
	}
	if p.Delivery.Class != models.DeliveryToday || p.Delivery.Text != "Забрать сегодня" {
		t.Errorf("Expected same-day for tireshop, got {%q %s}", p.Delivery.Text, p.Delivery.Class)
	}
	if resp.Products[1].Delivery.Class != models.DeliveryToday {
		t.Errorf("Expected same-day for local-pickup stock, got %s", resp.Products[1].Delivery.Class)
	}
}

func TestE2E_TiresFallBackToSynthetic(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	backOffice := fakeBackOffice(t, nil)
	defer backOffice.Close()

	api := newAPIServer(t, backOffice.URL, dead.URL)

	resp := getCatalog(t, api, "/api/v1/catalog/tires?season=w&width=205&height=55&diameter=16")

	if !resp.Synthetic {
		t.Error("Expected synthetic flag")
	}
	if len(resp.Products) < 8 || len(resp.Products) > 12 {
		t.Fatalf("Expected 8-12 synthetic tires, got %d", len(resp.Products))
	}

	itemsOfDay := 0
	for _, p := range resp.Products {
		if p.Dimensions != (models.Dimensions{Width: 205, Height: 55, Diameter: 16}) {
			t.Errorf("Dimension filter not honored: %+v", p.Dimensions)
		}
		if p.ItemOfDay {
			itemsOfDay++
		}
		if p.ImageURL == "" {
			t.Errorf("Expected placeholder image on synthetic item %s", p.DisplayName)
		}
	}
	if itemsOfDay != 1 {
		t.Errorf("Expected exactly one item of the day, got %d", itemsOfDay)
	}
}

func TestE2E_FastenersThroughBackOffice(t *testing.T) {
	backOffice := fakeBackOffice(t, map[string]string{
		"/api/feeds/2": `{"member":[
			{"id":"f1","title":"Вектор Болт М12x1.5","price":250,"quantity":40,"supplier":"4tochki"},
			{"id":"f2","title":"Starleks Гайка М12x1.25","price":180,"quantity":60,"supplier":"4tochki"}
		],"totalItems":2}`,
	})
	defer backOffice.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	api := newAPIServer(t, backOffice.URL, dead.URL)

	resp := getCatalog(t, api, "/api/v1/catalog/fasteners?category=болты")

	if resp.Synthetic {
		t.Error("Expected real data")
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "f1" {
		t.Fatalf("Expected the bolt only, got %+v", resp.Products)
	}
	if resp.Products[0].Delivery.Class != models.DeliveryFast {
		t.Errorf("Expected fast delivery for 4tochki, got %s", resp.Products[0].Delivery.Class)
	}
}

func TestE2E_BackOfficeDownDegradesToSynthetic(t *testing.T) {
	backOffice := fakeBackOffice(t, nil) // login works, feeds 404
	defer backOffice.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	api := newAPIServer(t, backOffice.URL, dead.URL)

	for _, path := range []string{
		"/api/v1/catalog/fasteners",
		"/api/v1/catalog/sensors",
		"/api/v1/catalog/spares",
	} {
		resp := getCatalog(t, api, path)
		if !resp.Synthetic {
			t.Errorf("%s: expected synthetic fallback", path)
		}
		if len(resp.Products) == 0 {
			t.Errorf("%s: expected non-empty list", path)
		}
	}
}

func TestE2E_AuthDownIsHardFailure(t *testing.T) {
	authFail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer authFail.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	api := newAPIServer(t, authFail.URL, dead.URL)

	resp, err := http.Get(api.URL + "/api/v1/catalog/fasteners")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected 502 when authentication is unavailable, got %d", resp.StatusCode)
	}
}

func TestE2E_DeliveryEndpointUsesDetailTable(t *testing.T) {
	backOffice := fakeBackOffice(t, nil)
	defer backOffice.Close()

	api := newAPIServer(t, backOffice.URL, backOffice.URL)

	resp, err := http.Get(api.URL + "/api/v1/delivery?provider=tireshop")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var est models.DeliveryEstimate
	if err := json.NewDecoder(resp.Body).Decode(&est); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if est.Text != "Доставка 5-7 дней" || est.Class != models.DeliveryMedium {
		t.Errorf("Expected detail-table estimate for tireshop, got {%q %s}", est.Text, est.Class)
	}
}

func TestE2E_HealthEndpoint(t *testing.T) {
	backOffice := fakeBackOffice(t, nil)
	defer backOffice.Close()

	api := newAPIServer(t, backOffice.URL, backOffice.URL)

	resp, err := http.Get(api.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", body["status"])
	}
}
