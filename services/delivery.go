// ABOUTME: Delivery time classification from provider identity and warehouse allocation
// ABOUTME: Two independent ordered lookup tables for category listings and item-detail views

package services

import (
	"strings"

	"github.com/skolesnik/shinshop/backend/models"
)

// providerRule maps a provider name (exact or substring, case-insensitive)
// to a fixed delivery estimate. Rules are evaluated top to bottom, so more
// specific names must come before the generic ones they contain.
type providerRule struct {
	name      string
	substring bool
	estimate  models.DeliveryEstimate
}

// localPickupWarehouses are our own branches. Stock allocated to any of
// these is available for same-day pickup regardless of provider.
var localPickupWarehouses = map[string]bool{
	"Магазин":          true,
	"Московское шоссе": true,
	"Кирова 24":        true,
}

// remoteWarehouses always mean a transfer from another city on item-detail
// views, no matter which provider holds the stock.
var remoteWarehouses = map[string]bool{
	"Удаленный склад": true,
	"Склад МСК":       true,
	"Склад СПб":       true,
}

// categoryProviderRules is the listing-page table. The "exclusive"/"brinex"
// entries and the newer "exlusive"/"4tochki" entries encode two partner
// naming conventions that currently coexist upstream; both are kept until
// the migration between them is finished.
var categoryProviderRules = []providerRule{
	{name: "tireshop", estimate: models.DeliveryEstimate{Text: "Забрать сегодня", Class: models.DeliveryToday}},
	{name: "4tochki-msk", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 5-7 дней", Class: models.DeliveryMedium}},
	{name: "4tochki", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 1-2 дня", Class: models.DeliveryFast}},
	{name: "exlusive", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 3-5 дней", Class: models.DeliveryMedium}},
	{name: "exclusive", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 3-5 дней", Class: models.DeliveryMedium}},
	{name: "brinex", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 3-5 дней", Class: models.DeliveryMedium}},
	{name: "kolesoplus", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 2-3 дня", Class: models.DeliveryFast}},
}

// backorderProviderRules is the item-detail table for "on order" stock.
// Estimates are intentionally longer than the listing table: backordered
// items are shipped by the provider only after we place the order.
var backorderProviderRules = []providerRule{
	{name: "tireshop", estimate: models.DeliveryEstimate{Text: "Доставка 5-7 дней", Class: models.DeliveryMedium}},
	{name: "4tochki", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 7-10 дней", Class: models.DeliveryMedium}},
	{name: "exlusive", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 7-10 дней", Class: models.DeliveryMedium}},
	{name: "exclusive", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 7-10 дней", Class: models.DeliveryMedium}},
	{name: "brinex", substring: true, estimate: models.DeliveryEstimate{Text: "Доставка 7-10 дней", Class: models.DeliveryMedium}},
}

var defaultCategoryEstimate = models.DeliveryEstimate{Text: "Доставка 7-10 дней", Class: models.DeliveryMedium}
var defaultBackorderEstimate = models.DeliveryEstimate{Text: "Доставка 10-14 дней", Class: models.DeliverySlow}
var pickupTodayEstimate = models.DeliveryEstimate{Text: "Забрать сегодня", Class: models.DeliveryToday}
var remoteWarehouseEstimate = models.DeliveryEstimate{Text: "Доставка 5-7 дней", Class: models.DeliveryMedium}

// Classify returns the delivery estimate shown on category listings.
// Total: always returns an estimate, never fails.
//
// Decision order: own stock, then local-pickup warehouses, then the
// provider table, then the generic default.
func Classify(providerID string, warehouses map[string]int) models.DeliveryEstimate {
	if providerID == "" {
		return pickupTodayEstimate
	}

	for name, qty := range warehouses {
		if qty > 0 && localPickupWarehouses[name] {
			return pickupTodayEstimate
		}
	}

	if est, ok := matchProvider(categoryProviderRules, providerID); ok {
		return est
	}

	return defaultCategoryEstimate
}

// ClassifyDetail returns the estimate for item-detail views, keyed by a
// single warehouse name. A recognized remote warehouse wins over any
// provider; everything else is treated as backordered stock.
//
// This table is intentionally separate from Classify: listing pages show
// the best case across all warehouses, detail pages show the concrete
// warehouse the order would ship from.
func ClassifyDetail(providerID, warehouseName string) models.DeliveryEstimate {
	if remoteWarehouses[warehouseName] {
		return remoteWarehouseEstimate
	}

	if providerID == "" {
		return pickupTodayEstimate
	}

	if est, ok := matchProvider(backorderProviderRules, providerID); ok {
		return est
	}

	return defaultBackorderEstimate
}

func matchProvider(rules []providerRule, providerID string) (models.DeliveryEstimate, bool) {
	p := strings.ToLower(strings.TrimSpace(providerID))
	for _, rule := range rules {
		if rule.substring {
			if strings.Contains(p, rule.name) {
				return rule.estimate, true
			}
		} else if p == rule.name {
			return rule.estimate, true
		}
	}
	return models.DeliveryEstimate{}, false
}
