// Package errs defines the error taxonomy shared by the store adapters and
// the workflow engine.
package errs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

var (
	// ErrNotFound indicates the referenced entity does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a caller-supplied precondition was violated.
	// Validation failures are reported before any store mutation is attempted.
	ErrValidation = errors.New("validation failed")

	// ErrTransientStore indicates a retryable infrastructure fault
	// (throttling, connectivity). Retry policy belongs to the caller.
	ErrTransientStore = errors.New("transient store error")

	// ErrSchema indicates stored data does not match the expected shape.
	ErrSchema = errors.New("schema error")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Schemaf wraps ErrSchema with a formatted message.
func Schemaf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// retryableCodes are DynamoDB fault codes that a caller may retry.
var retryableCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
	"LimitExceededException":                 true,
	"InternalServerError":                    true,
	"ServiceUnavailable":                     true,
}

// ClassifyStore maps a raw store client error onto the taxonomy. Throttling
// and service faults become ErrTransientStore; anything else is wrapped
// unchanged so the original API error stays inspectable via errors.As.
func ClassifyStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransientStore, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && retryableCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%s: %w: %v", op, ErrTransientStore, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
