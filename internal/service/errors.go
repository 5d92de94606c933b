package service

import "errors"

var (
	// ErrSignatureInvalid marks an untrusted signal. It is never persisted
	// as a real payment event and must not trigger gateway retries.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrMalformedEvent marks a webhook body that verified but cannot be
	// dispatched (missing event id or references).
	ErrMalformedEvent = errors.New("malformed webhook event")

	// ErrOrderMismatch marks a callback whose order does not match the
	// referenced transaction; guards against replay/substitution.
	ErrOrderMismatch = errors.New("order mismatch")

	// ErrUnknownTransaction means the gateway references a transaction we
	// have not created yet. Retriable: the webhook can legitimately race
	// ahead of order creation, redelivery will succeed later.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrAmountMismatch is a data-integrity violation: a SUCCESS signal
	// whose amount disagrees with the order. Never auto-resolved.
	ErrAmountMismatch = errors.New("order amount mismatch")
)
