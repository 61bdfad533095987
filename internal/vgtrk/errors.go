package vgtrk

// TransportError is a network-level failure talking to the VGTRK API.
// It is never retried; callers surface it as a generic connection error.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "vgtrk: connection error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a well-formed error envelope from the API, or a body
// that could not be parsed as JSON at all.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return "vgtrk: upstream error"
	}
	return "vgtrk: " + e.Message
}

// NotFoundError marks a missing brand/video or a video explicitly flagged
// not playable by the access check.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "vgtrk: not found"
	}
	return "vgtrk: " + e.Message
}
