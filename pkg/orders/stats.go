package orders

import "context"

// ArtisanStats is one artisan's slice of the admin dashboard.
type ArtisanStats struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalOrders   int                     `json:"totalOrders"`
	TotalRevenue  float64                 `json:"totalRevenue"`
	AvgOrderValue float64                 `json:"avgOrderValue"`
	PerArtisan    map[string]ArtisanStats `json:"perArtisan"`
}

// ComputeStats folds once over all orders: totals, average order value, and
// per-artisan revenue and order counts. Nothing is maintained incrementally;
// every call recomputes from the slot.
func (s *Service) ComputeStats(ctx context.Context) Stats {
	stats := Stats{PerArtisan: make(map[string]ArtisanStats)}

	for _, o := range s.All(ctx) {
		total := o.Total()
		stats.TotalOrders++
		stats.TotalRevenue += total

		per := stats.PerArtisan[o.ArtisanID]
		per.Orders++
		per.Revenue += total
		stats.PerArtisan[o.ArtisanID] = per
	}
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	return stats
}
