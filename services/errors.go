package services

// The service layer reports failures through three typed errors so handlers
// can translate them to HTTP statuses without string matching: ValidationError
// (bad input, 400), NotFoundError (missing entity, 404) and InvalidStateError
// (business-rule rejection such as an expired coupon, 400). Anything else is
// a storage error and surfaces as a generic 500.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }
