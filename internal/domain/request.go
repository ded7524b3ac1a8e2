package domain

// RequestStatus is the lifecycle tag of one asynchronous operation
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// String returns a human-readable representation of the status
func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ErrorInfo is the normalized failure carried by a Failure state
type ErrorInfo struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status when the remote answered, 0 otherwise
}

// RequestState is the idle/pending/success/failure wrapper of one request slot.
//
// Each Begin issues a new token. Only the completion carrying the newest token
// is applied, so a slow earlier request can never overwrite a later one.
// Data keeps the most recent successful payload; it is current only while
// Status is StatusSuccess.
type RequestState[T any] struct {
	Status RequestStatus
	Data   T
	Err    *ErrorInfo
	Token  uint64
}

// Begin moves the slot to Pending and returns the token for this request
func (s *RequestState[T]) Begin() uint64 {
	s.Token++
	s.Status = StatusPending
	s.Err = nil
	return s.Token
}

// Resolve applies a successful completion. It returns false when the token is stale.
func (s *RequestState[T]) Resolve(token uint64, data T) bool {
	if token != s.Token {
		return false
	}
	s.Status = StatusSuccess
	s.Data = data
	s.Err = nil
	return true
}

// Reject applies a failed completion. It returns false when the token is stale.
func (s *RequestState[T]) Reject(token uint64, info ErrorInfo) bool {
	if token != s.Token {
		return false
	}
	s.Status = StatusFailure
	s.Err = &info
	return true
}

// Reset returns the slot to Idle and drops any in-flight completion
func (s *RequestState[T]) Reset() {
	var zero T
	s.Token++
	s.Status = StatusIdle
	s.Data = zero
	s.Err = nil
}

func (s RequestState[T]) IsPending() bool { return s.Status == StatusPending }
func (s RequestState[T]) Succeeded() bool { return s.Status == StatusSuccess }
func (s RequestState[T]) Failed() bool    { return s.Status == StatusFailure }
