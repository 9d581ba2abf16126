package validation

import (
	"testing"
)

func TestCompleteOrderRequest_Valid(t *testing.T) {
	v := New()

	req := CompleteOrderRequest{
		PackedBy: "P1",
		PhotoURL: "http://media.example.com/photo.jpg",
		VideoURL: "http://media.example.com/video.mp4",
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCompleteOrderRequest_MissingMedia(t *testing.T) {
	v := New()

	req := CompleteOrderRequest{
		PackedBy: "P1",
		PhotoURL: "",
		VideoURL: "http://media.example.com/video.mp4",
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for missing photo url, got nil")
	}
}

func TestUpdateItemsRequest_DuplicateIndexRejected(t *testing.T) {
	v := New()

	req := UpdateItemsRequest{
		Decisions: []ItemDecision{
			{Index: 0, Availability: "available"},
			{Index: 0, Availability: "unavailable"},
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for duplicate item index, got nil")
	}
}

func TestUpdateItemsRequest_UnknownAvailabilityRejected(t *testing.T) {
	v := New()

	req := UpdateItemsRequest{
		Decisions: []ItemDecision{{Index: 0, Availability: "maybe"}},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for unknown availability, got nil")
	}
}

func TestBulkCompleteRequest_MaxItemsBounds(t *testing.T) {
	v := New()

	req := BulkCompleteRequest{
		PackedBy: "P1",
		PhotoURL: "http://media.example.com/photo.jpg",
		VideoURL: "http://media.example.com/video.mp4",
		MaxItems: 0, // omitted -> handler default
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("zero max items should pass (treated as unset): %v", err)
	}

	req.MaxItems = 501
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for max items above cap, got nil")
	}
}
