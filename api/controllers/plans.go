package controllers

import (
	"net/http"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/plans"
)

type planView struct {
	plans.Plan
	PriceLabel string `json:"price_label"`
	Current    bool   `json:"current"`
}

// PlanCatalog lists the subscription tiers and marks the caller's current one.
func PlanCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := -1
		if snap, ok := middleware.SnapshotFromContext(r.Context()); ok {
			if loc := snap.Location(); loc != nil {
				current = loc.SubscriptionTier
			}
		}

		catalog := plans.Catalog()
		out := make([]planView, 0, len(catalog))
		for _, plan := range catalog {
			out = append(out, planView{Plan: plan, PriceLabel: plan.PriceLabel(), Current: plan.Tier == current})
		}
		responses.WriteSuccess(w, map[string]any{"plans": out, "current_tier": current})
	}
}
