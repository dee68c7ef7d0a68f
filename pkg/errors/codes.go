package errors

// ErrorCode is the typed identifier of a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK         ErrorCode = "OK"
	CodeUnknown    ErrorCode = "COMMON_000"
	CodeInternal   ErrorCode = "COMMON_001"
	CodeValidation ErrorCode = "COMMON_002"
	CodeNotFound   ErrorCode = "COMMON_003"
	CodeIO         ErrorCode = "COMMON_004"
)

// Geometry (data-class) error codes.  These are recovered locally: the
// offending feature or primary is excluded, the run continues, and the
// exclusion is enumerated in run provenance.
const (
	// CodeGeometryRepairFailed marks a feature whose geometry remains invalid
	// after the zero-width buffer repair and the validity rebuild fallback.
	CodeGeometryRepairFailed ErrorCode = "GEO_001"

	// CodeDegeneratePrimaryArea marks a dissolved primary with zero or
	// negative area, which would otherwise divide by zero in the percentage
	// calculation.
	CodeDegeneratePrimaryArea ErrorCode = "GEO_002"

	// CodeGeometryParseFailed marks a feature whose geometry could not be
	// constructed from its GeoJSON encoding at all.
	CodeGeometryParseFailed ErrorCode = "GEO_003"

	// CodeUnsupportedGeometryType marks a feature that is neither a polygon
	// nor a multipolygon.
	CodeUnsupportedGeometryType ErrorCode = "GEO_004"
)

// Configuration (fatal-class) error codes.  These abort the run before any
// geometry work begins.
const (
	// CodeUnknownGeographyID marks a requested geography identifier outside
	// the fixed fifteen-value vocabulary.
	CodeUnknownGeographyID ErrorCode = "CFG_001"

	// CodeThresholdMisconfiguration marks negative thresholds, a positive
	// (growing) denoise buffer, or a negative rounding precision.
	CodeThresholdMisconfiguration ErrorCode = "CFG_002"

	// CodeInvalidConfig marks any other unusable configuration.
	CodeInvalidConfig ErrorCode = "CFG_003"
)

// Input-boundary error codes.
const (
	// CodeCollectionParseFailed marks a consolidated boundary collection that
	// could not be decoded.
	CodeCollectionParseFailed ErrorCode = "SRC_001"

	// CodeEmptyLayer marks a requested layer with no features in the
	// consolidated collection.
	CodeEmptyLayer ErrorCode = "SRC_002"
)

// errorCodeMessage maps codes to default messages.
var errorCodeMessage = map[ErrorCode]string{
	CodeInternal:   "internal error",
	CodeValidation: "validation failed",
	CodeNotFound:   "not found",
	CodeIO:         "i/o error",

	CodeGeometryRepairFailed:    "geometry repair failed",
	CodeDegeneratePrimaryArea:   "dissolved primary has degenerate area",
	CodeGeometryParseFailed:     "geometry could not be parsed",
	CodeUnsupportedGeometryType: "unsupported geometry type",

	CodeUnknownGeographyID:        "unknown geography id",
	CodeThresholdMisconfiguration: "threshold misconfiguration",
	CodeInvalidConfig:             "invalid configuration",

	CodeCollectionParseFailed: "failed to parse boundary collection",
	CodeEmptyLayer:            "layer has no features",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := errorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}
