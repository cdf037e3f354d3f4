package apperror

// Machine-readable error kinds shared by all modules.
const (
	KindInvalidInput        = "invalid_input"
	KindNotFound            = "not_found"
	KindForbidden           = "forbidden"
	KindDateRange           = "date_range_error"
	KindPolicyViolation     = "policy_violation"
	KindConflict            = "conflict_error"
	KindCapacity            = "capacity_error"
	KindConcurrencyConflict = "concurrency_conflict"
)

// AppError is a custom error type that includes an HTTP status code, a machine-readable kind
// and an optional structured payload.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    string // Machine-readable kind (e.g., "capacity_error")
	Message string // User-facing error message
	Details any    // Structured payload rendered next to the message, if any
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of e carrying the given payload.
// The copy wraps e, so errors.Is(copy, e) holds.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	cp.Err = e
	return &cp
}

// NewKind creates a new AppError with a status code, kind and message.
func NewKind(code int, kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}
