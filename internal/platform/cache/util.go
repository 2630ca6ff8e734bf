package cache

import "time"

// TimeUntilNextRefresh returns how long until the daily market-data refresh
// next lands, given the UTC hour it runs at. Sizing the price cache TTL to
// that moment keeps entries warm all day and drops them as new closes arrive.
func TimeUntilNextRefresh(refreshHourUTC int) time.Duration {
	now := time.Now().UTC()

	next := time.Date(now.Year(), now.Month(), now.Day(), refreshHourUTC, 0, 0, 0, time.UTC)
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
