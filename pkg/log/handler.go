package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	sferrors "github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// ErrorCode classifies err into one of the Error* attribute values.
func ErrorCode(err error) string {
	var (
		perr *sferrors.PanicError
		verr *sferrors.ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &perr):
		return ErrorInternal
	case errors.Is(err, sferrors.ErrNoValidData):
		return ErrorNoValidData
	case errors.Is(err, sferrors.ErrDataUnavailable):
		return ErrorDataUnavailable
	case errors.Is(err, sferrors.ErrInsufficientData):
		return ErrorInsufficientData
	case errors.As(err, &verr):
		return ErrorInvalidInput
	default:
		return ErrorInternal
	}
}

// ErrFmtHandler enriches slog records carrying an error under ErrAttrKey:
// the stack trace, an ErrorCodeKey unless the record has one, and the
// dataset name and path of a DataUnavailableError.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with ErrFmtHandler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var (
		err     error
		hasCode bool
	)
	r.Attrs(func(attr slog.Attr) bool {
		switch attr.Key {
		case ErrAttrKey:
			if e, ok := attr.Value.Any().(error); ok {
				err = e
			}
		case ErrorCodeKey:
			hasCode = true
		}
		return true
	})
	if err == nil {
		return eh.handler.Handle(ctx, r)
	}

	if st := extractStacktrace(err); st != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, st))
	}
	if !hasCode {
		r.AddAttrs(slog.String(ErrorCodeKey, ErrorCode(err)))
	}
	var du *sferrors.DataUnavailableError
	if errors.As(err, &du) {
		r.AddAttrs(slog.String(DatasetKey, du.Dataset), slog.String(PathKey, du.Path))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// extractStacktrace prefers the stack recorded by a recovered panic over the
// one cockroachdb attached when the error was created.
func extractStacktrace(err error) string {
	var perr *sferrors.PanicError
	if errors.As(err, &perr) && perr.StackTrace != "" {
		return perr.StackTrace
	}
	if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 {
		return details[0]
	}
	return ""
}
