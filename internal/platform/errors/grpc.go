package errors

import (
	"errors"

	"github.com/louisbranch/grandline/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale renders messages when the caller sent no locale.
const DefaultLocale = "pt-BR"

// HandleError converts err to a gRPC status. Coded errors get ErrorInfo and
// a LocalizedMessage in locale; existing statuses pass through; anything
// else becomes a generic Internal.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		if locale == "" {
			locale = DefaultLocale
		}
		catalog := i18n.GetCatalog(locale)
		return appErr.status(catalog.Locale(), catalog.Format(string(appErr.Code), appErr.Metadata))
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, "an unexpected error occurred")
}

func (e *Error) status(locale, userMessage string) error {
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{Reason: string(e.Code), Domain: Domain, Metadata: e.Metadata},
		&errdetails.LocalizedMessage{Locale: locale, Message: userMessage},
	)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// GetCode returns the code of the first coded error in err's chain, or
// CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
