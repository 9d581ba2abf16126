package validation

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CompleteOrderRequest is the payload for POST /orders/:id/complete.
// Both proof-of-completion URLs are mandatory.
type CompleteOrderRequest struct {
	PackedBy string `json:"packedBy" validate:"required"` // packer_id
	PhotoURL string `json:"photoUrl" validate:"required,url"`
	VideoURL string `json:"videoUrl" validate:"required,url"`
}

// BulkCompleteRequest is the payload for POST /orders/complete-all.
type BulkCompleteRequest struct {
	PackedBy string `json:"packedBy" validate:"required"`
	PhotoURL string `json:"photoUrl" validate:"required,url"`
	VideoURL string `json:"videoUrl" validate:"required,url"`
	MaxItems int    `json:"maxItems,omitempty" validate:"omitempty,min=1,max=500"`
}

// ItemDecision records one availability decision by item position.
type ItemDecision struct {
	Index        int    `json:"index" validate:"min=0"`
	Availability string `json:"availability" validate:"required,oneof=available unavailable"`
}

// UpdateItemsRequest is the payload for PUT /orders/:id/items: a full packing
// pass worth of decisions, persisted in one write.
type UpdateItemsRequest struct {
	Decisions []ItemDecision `json:"decisions" validate:"required,min=1,dive"`
}

// UpdatePackerRequest is the payload for PUT /profile/:id. Empty fields are
// left untouched.
type UpdatePackerRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}
