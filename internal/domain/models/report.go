package models

import "time"

// DailySummary represents one trading day's aggregated figures, written by
// the scheduler to its own collection.
type DailySummary struct {
	Date        string    `bson:"date" json:"date"`
	Records     int       `bson:"records" json:"records"`
	LineItems   int       `bson:"line_items" json:"line_items"`
	TotalAmount int64     `bson:"total_amount" json:"total_amount"`
	TopMaterial string    `bson:"top_material,omitempty" json:"top_material,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
