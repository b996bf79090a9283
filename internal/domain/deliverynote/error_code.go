package deliverynote

// ErrorCode classifies the outcome of matching or revising a line item.
// Larger values are more severe; see Merge.
type ErrorCode int64

const (
	ErrorNone                 ErrorCode = 0
	ErrorExternalService      ErrorCode = 1
	ErrorInvalidQuantity      ErrorCode = 2
	ErrorMissingScalingFactor ErrorCode = 4
)

// Merge returns the more severe of c and other. A non-zero code is never
// lowered back to ErrorNone.
func (c ErrorCode) Merge(other ErrorCode) ErrorCode {
	if other > c {
		return other
	}
	return c
}

func (c ErrorCode) String() string {
	switch c {
	case ErrorNone:
		return "none"
	case ErrorExternalService:
		return "external_service"
	case ErrorInvalidQuantity:
		return "invalid_quantity"
	case ErrorMissingScalingFactor:
		return "missing_scaling_factor"
	default:
		return "unknown"
	}
}
