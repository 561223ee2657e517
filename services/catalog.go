// ABOUTME: Catalog fetch-and-normalize pipeline for all four product feeds
// ABOUTME: Degrades upstream failures to synthetic data; auth failure is the only hard error

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"github.com/skolesnik/shinshop/backend/metrics"
	"github.com/skolesnik/shinshop/backend/models"
)

// FeedIDs holds the numeric back-office ids of the authenticated feeds.
type FeedIDs struct {
	Fasteners   int
	Sensors     int
	SpareWheels int
}

// Catalog orchestrates upstream fetch, normalization, synthetic fallback,
// and delivery classification. The boolean result reports whether the
// returned products are synthetic.
type Catalog struct {
	backOffice *BackOfficeClient
	tireFeed   *TireCatalogClient
	normalizer *Normalizer
	generator  *Generator
	feeds      FeedIDs
	metrics    metrics.Recorder
}

func NewCatalog(backOffice *BackOfficeClient, tireFeed *TireCatalogClient, normalizer *Normalizer, generator *Generator, feeds FeedIDs, m metrics.Recorder) *Catalog {
	if m == nil {
		m = metrics.Nop{}
	}
	if backOffice != nil && backOffice.Session() != nil {
		backOffice.Session().SetMetrics(m.LoginAttempt)
	}
	return &Catalog{
		backOffice: backOffice,
		tireFeed:   tireFeed,
		normalizer: normalizer,
		generator:  generator,
		feeds:      feeds,
		metrics:    m,
	}
}

// Tires fetches the tire feed. It needs no authentication, so every
// failure mode degrades to synthetic data and no error is ever returned.
func (c *Catalog) Tires(ctx context.Context, f models.Filters) ([]models.Product, bool, error) {
	start := time.Now()
	records, err := c.tireFeed.FetchTires(ctx, f)
	c.metrics.FetchLatency("tires", time.Since(start))

	if err != nil {
		slog.Warn("Tire feed unavailable", "error", err)
		c.metrics.FetchFailed("tires", failReason(err))
		return c.fallback("tires", c.generator.Tires(f)), true, nil
	}

	c.metrics.FetchSucceeded("tires")
	return withDelivery(c.normalizer.Tires(records, f)), false, nil
}

// Fasteners fetches the fastener feed and applies the sub-category filter
// the back-office cannot do itself.
func (c *Catalog) Fasteners(ctx context.Context, f models.Filters) ([]models.Product, bool, error) {
	records, err := c.fetchAuthed(ctx, "fasteners", c.feeds.Fasteners)
	if err != nil {
		if errors.Is(err, models.ErrAuthUnavailable) {
			return nil, false, err
		}
		return c.fallback("fasteners", c.generator.Fasteners(f)), true, nil
	}

	products := FilterFastenersByCategory(c.normalizer.FeedItems(records), f.Category)
	if len(products) == 0 {
		// The client-side filter can empty an otherwise valid feed; the
		// caller is still promised a non-empty list.
		return c.fallback("fasteners", c.generator.Fasteners(f)), true, nil
	}

	return withDelivery(products), false, nil
}

// Sensors fetches the pressure-sensor feed, filtering by the compatibility
// lists carried in the raw records.
func (c *Catalog) Sensors(ctx context.Context, f models.Filters) ([]models.Product, bool, error) {
	records, err := c.fetchAuthed(ctx, "sensors", c.feeds.Sensors)
	if err != nil {
		if errors.Is(err, models.ErrAuthUnavailable) {
			return nil, false, err
		}
		return c.fallback("sensors", c.generator.Sensors(f)), true, nil
	}

	records = FilterSensorsByCompatibility(records, f.Model)
	if len(records) == 0 {
		return c.fallback("sensors", c.generator.Sensors(f)), true, nil
	}

	return withDelivery(c.normalizer.FeedItems(records)), false, nil
}

// SpareWheels fetches the spare-wheel feed.
func (c *Catalog) SpareWheels(ctx context.Context, f models.Filters) ([]models.Product, bool, error) {
	records, err := c.fetchAuthed(ctx, "spares", c.feeds.SpareWheels)
	if err != nil {
		if errors.Is(err, models.ErrAuthUnavailable) {
			return nil, false, err
		}
		return c.fallback("spares", c.generator.SpareWheels(f)), true, nil
	}

	return withDelivery(c.normalizer.FeedItems(records)), false, nil
}

// fetchAuthed wraps a back-office feed fetch with metrics.
func (c *Catalog) fetchAuthed(ctx context.Context, feed string, feedID int) ([]gjson.Result, error) {
	start := time.Now()
	records, err := c.backOffice.FetchFeed(ctx, feedID)
	c.metrics.FetchLatency(feed, time.Since(start))

	if err != nil {
		c.metrics.FetchFailed(feed, failReason(err))
		if !errors.Is(err, models.ErrAuthUnavailable) {
			slog.Warn("Back-office feed unavailable", "feed", feed, "error", err)
		}
		return nil, err
	}

	c.metrics.FetchSucceeded(feed)
	return records, nil
}

func (c *Catalog) fallback(feed string, products []models.Product) []models.Product {
	slog.Warn("Serving synthetic catalog", "feed", feed, "items", len(products))
	c.metrics.FallbackServed(feed)
	// Generated items carry no image reference; the placeholder keeps
	// fallback listings rendering like real ones.
	for i := range products {
		if products[i].ImageURL == "" {
			products[i].ImageURL = c.normalizer.resolveImageRef("")
		}
	}
	return withDelivery(products)
}

// withDelivery attaches the listing-mode delivery estimate to every
// product. Done at creation time; products are immutable afterwards.
func withDelivery(products []models.Product) []models.Product {
	for i := range products {
		products[i].Delivery = Classify(products[i].ProviderID, products[i].Warehouses)
	}
	return products
}

func failReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAuthUnavailable):
		return "auth"
	case errors.Is(err, models.ErrEmptyResult):
		return "empty"
	default:
		return "unavailable"
	}
}
