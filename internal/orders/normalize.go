package orders

import (
	"time"

	"github.com/promodeagro/packer-workflow/internal/errs"
)

// orderRecord is the raw table shape. Items arrive as loose maps because
// upstream writers disagree on item field names; normalization into OrderItem
// happens here, once, so the engine never sees ambiguous shapes.
type orderRecord struct {
	ID             string                   `dynamodbav:"id"`
	Status         string                   `dynamodbav:"status"`
	CreatedAt      time.Time                `dynamodbav:"createdAt"`
	UpdatedAt      time.Time                `dynamodbav:"updatedAt"`
	Items          []map[string]interface{} `dynamodbav:"items"`
	PackingSummary *PackingSummary          `dynamodbav:"packing_summary"`
	PackedBy       string                   `dynamodbav:"packed_by"`
	PackedAt       string                   `dynamodbav:"packed_at"`
	MediaPhotoURL  string                   `dynamodbav:"media_photo_url"`
	MediaVideoURL  string                   `dynamodbav:"media_video_url"`
}

func (r *orderRecord) toOrder() (*Order, error) {
	o := &Order{
		ID:             r.ID,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		PackingSummary: r.PackingSummary,
		PackedBy:       r.PackedBy,
		PackedAt:       r.PackedAt,
		MediaPhotoURL:  r.MediaPhotoURL,
		MediaVideoURL:  r.MediaVideoURL,
	}
	if len(r.Items) > 0 {
		o.Items = make([]OrderItem, 0, len(r.Items))
		for i, raw := range r.Items {
			item, err := normalizeItem(r.ID, i, raw)
			if err != nil {
				return nil, err
			}
			o.Items = append(o.Items, item)
		}
	}
	return o, nil
}

// normalizeItem resolves the legacy field-name fallback chain
// (productName > name > sku) into the canonical OrderItem.
func normalizeItem(orderID string, idx int, raw map[string]interface{}) (OrderItem, error) {
	name := firstString(raw, "productName", "name", "sku")
	if name == "" {
		return OrderItem{}, errs.Schemaf("order %s: item %d has no name field", orderID, idx)
	}

	qty := firstInt(raw, "quantity", "quantityUnits")
	if qty < 1 {
		qty = 1
	}

	availability := firstString(raw, "availability")
	switch availability {
	case AvailabilityAvailable, AvailabilityUnavailable:
	default:
		// anything unrecognized counts as no decision yet
		availability = AvailabilityUnset
	}

	return OrderItem{Name: name, Quantity: qty, Availability: availability}, nil
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(raw map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		}
	}
	return 0
}
