package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Record field errors
	CodeFieldUnknown     Code = "FIELD_UNKNOWN"
	CodeFieldNotEditable Code = "FIELD_NOT_EDITABLE"

	// Progression entry errors
	CodeEntryInvalid              Code = "ENTRY_INVALID"
	CodeEntryListUnknown          Code = "ENTRY_LIST_UNKNOWN"
	CodeEntryIndexOutOfRange      Code = "ENTRY_INDEX_OUT_OF_RANGE"
	CodeEntryNotLeveled           Code = "ENTRY_NOT_LEVELED"
	CodeEntryActionUnknown        Code = "ENTRY_ACTION_UNKNOWN"
	CodeSpecializationUnknown     Code = "SPECIALIZATION_UNKNOWN"
	CodeSpecializationUnavailable Code = "SPECIALIZATION_UNAVAILABLE"
	CodeDurabilityNotApplicable   Code = "DURABILITY_NOT_APPLICABLE"
	CodeBenefitTableUnknown       Code = "BENEFIT_TABLE_UNKNOWN"

	// Vital pool errors
	CodeVitalPoolUnknown   Code = "VITAL_POOL_UNKNOWN"
	CodeVitalActionUnknown Code = "VITAL_ACTION_UNKNOWN"

	// Import/export errors
	CodeImportShapeMismatch Code = "IMPORT_SHAPE_MISMATCH"
	CodeImportMalformed     Code = "IMPORT_MALFORMED"
	CodeFormatUnsupported   Code = "FORMAT_UNSUPPORTED"

	// Sheet request errors
	CodeCharacterIDRequired Code = "CHARACTER_ID_REQUIRED"
	CodeOwnerRequired       Code = "OWNER_REQUIRED"
	CodeFilterInvalid       Code = "FILTER_INVALID"

	// Identity errors
	CodeIdentityTokenMissing Code = "IDENTITY_TOKEN_MISSING"
	CodeIdentityTokenInvalid Code = "IDENTITY_TOKEN_INVALID"
	CodeIdentityTokenExpired Code = "IDENTITY_TOKEN_EXPIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeFieldUnknown,
		CodeFieldNotEditable,
		CodeEntryInvalid,
		CodeEntryListUnknown,
		CodeEntryActionUnknown,
		CodeSpecializationUnknown,
		CodeBenefitTableUnknown,
		CodeVitalPoolUnknown,
		CodeVitalActionUnknown,
		CodeImportShapeMismatch,
		CodeImportMalformed,
		CodeFormatUnsupported,
		CodeCharacterIDRequired,
		CodeFilterInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - sheet state doesn't allow operation
	case CodeEntryIndexOutOfRange,
		CodeEntryNotLeveled,
		CodeSpecializationUnavailable,
		CodeDurabilityNotApplicable:
		return codes.FailedPrecondition

	// Unauthenticated - missing or rejected identity
	case CodeOwnerRequired,
		CodeIdentityTokenMissing,
		CodeIdentityTokenInvalid,
		CodeIdentityTokenExpired:
		return codes.Unauthenticated

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
