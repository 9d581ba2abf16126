package orders

import "time"

// Order statuses. An order only ever moves unpacked -> packed; there is no
// reverse transition (re-completion overwrites, it does not re-open).
const (
	StatusUnpacked = "unpacked"
	StatusPacked   = "packed"
)

// Item availability decisions. Unset means no decision recorded yet.
const (
	AvailabilityUnset       = ""
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
)

// OrderItem is a single line item embedded in an Order. Items are normalized
// at the store boundary: Name is always populated, Quantity is always >= 1.
type OrderItem struct {
	Name         string `dynamodbav:"name" json:"name"`
	Quantity     int    `dynamodbav:"quantity" json:"quantity"`
	Availability string `dynamodbav:"availability,omitempty" json:"availability,omitempty"`
}

// PackingSummary aggregates per-item availability decisions.
type PackingSummary struct {
	Available   int `dynamodbav:"available" json:"available"`
	Unavailable int `dynamodbav:"unavailable" json:"unavailable"`
	Total       int `dynamodbav:"total" json:"total"`
}

// Order represents an item in the Orders DynamoDB table. Orders are created
// upstream; this service only reads them and transitions them to packed.
//
// Attribute names mirror the live table: top-level timestamps are camelCase,
// packing fields are snake_case.
type Order struct {
	ID             string          `dynamodbav:"id" json:"id"` // PK
	Status         string          `dynamodbav:"status" json:"status"`
	CreatedAt      time.Time       `dynamodbav:"createdAt" json:"createdAt"` // GSI range key
	UpdatedAt      time.Time       `dynamodbav:"updatedAt" json:"updatedAt"`
	Items          []OrderItem     `dynamodbav:"items,omitempty" json:"items,omitempty"`
	PackingSummary *PackingSummary `dynamodbav:"packing_summary,omitempty" json:"packingSummary,omitempty"`
	PackedBy       string          `dynamodbav:"packed_by,omitempty" json:"packedBy,omitempty"`
	PackedAt       string          `dynamodbav:"packed_at,omitempty" json:"packedAt,omitempty"` // RFC3339
	MediaPhotoURL  string          `dynamodbav:"media_photo_url,omitempty" json:"mediaPhotoUrl,omitempty"`
	MediaVideoURL  string          `dynamodbav:"media_video_url,omitempty" json:"mediaVideoUrl,omitempty"`
}
