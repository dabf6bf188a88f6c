package materials

import "time"

type Material struct {
	ID             int64
	Name           string
	StockG         float64
	ExpiresAt      *time.Time
	Vendor         string
	UnitPriceKrwKg float64
	MoqKg          float64
	LeadTimeDays   int64
}
