package services

import "errors"

// Error kinds surfaced by the estimation core. Handlers map these to
// status codes with errors.Is; the core never logs them.
var (
	// ErrStationNotFound: the supplied reference resolves to no catalog
	// station, or a canonical id has no identifier-mapping row at all.
	ErrStationNotFound = errors.New("station not found")

	// ErrInvalidParameter: riding frequency out of bounds or an
	// unrecognized time pattern.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDataUnavailable: the trip store or station catalog itself
	// failed (connectivity, timeout). Never retried here.
	ErrDataUnavailable = errors.New("data unavailable")
)
