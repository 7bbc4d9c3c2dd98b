package preface

import "errors"

// Sentinel errors for the failure modes a caller is expected to branch on.
// All are surfaced once — nothing in this package retries.
var (
	// ErrMalformedDocument means a CMS payload was missing required fields
	// or had the wrong shape. Fatal to that single render.
	ErrMalformedDocument = errors.New("preface: malformed document")

	// ErrUpstreamUnavailable means the CMS could not be reached or refused
	// the request (transport error, auth failure, 5xx).
	ErrUpstreamUnavailable = errors.New("preface: upstream unavailable")

	// ErrInvalidCursor means a continuation cursor was stale or unrecognized
	// by the CMS. The caller should restart pagination from the first page.
	ErrInvalidCursor = errors.New("preface: invalid pagination cursor")

	// ErrInvalidToken means a preview token did not resolve for the target
	// document. No preview session is established.
	ErrInvalidToken = errors.New("preface: invalid preview token")

	// ErrNotFound means the requested document does not exist at the
	// current ref.
	ErrNotFound = errors.New("preface: document not found")
)
