package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a packing pass must not decide the same item twice
	v.RegisterStructValidation(updateItemsStructValidation, UpdateItemsRequest{})

	return v
}

func updateItemsStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateItemsRequest)

	seen := map[int]bool{}
	for _, d := range req.Decisions {
		if seen[d.Index] {
			sl.ReportError(req.Decisions, "decisions", "Decisions", "unique_item_index", fmt.Sprintf("item index %d decided more than once", d.Index))
			return
		}
		seen[d.Index] = true
	}
}
