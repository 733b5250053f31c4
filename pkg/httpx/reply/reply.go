package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"github.com/nefeygt/wowscraper/pkg/contextx"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
	"github.com/nefeygt/wowscraper/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Accepted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusAccepted)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	code := errorCode(err)

	response := errorResponse{
		Code:      code.String(),
		Message:   errorMessage(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err) || isInvalidArgumentCode(code):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err) || isNotFoundCode(code):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case code == errcodes.UpstreamUnavailable || code == errcodes.AuthFailed:
		JSON(ctx, w, http.StatusBadGateway, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func isInvalidArgumentCode(code failure.ErrorCode) bool {
	return code == errcodes.ValidationError ||
		code == errcodes.InvalidPaging ||
		code == errcodes.InvalidItemID ||
		code == errcodes.InvalidRealmID
}

func isNotFoundCode(code failure.ErrorCode) bool {
	return code == errcodes.NotFound ||
		code == errcodes.ItemNotFound ||
		code == errcodes.RealmNotFound ||
		code == errcodes.NoPriceData
}

// errorCode falls back to any error in the chain carrying its own code, so
// the domain layer never has to depend on the failure constructors.
func errorCode(err error) failure.ErrorCode {
	if code := failure.Code(err); code != "" {
		return code
	}

	var coded interface{ ErrorCode() failure.ErrorCode }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}

	return ""
}

func errorMessage(err error) string {
	if description := failure.Description(err); description != "" {
		return description
	}

	var described interface{ Description() string }
	if errors.As(err, &described) {
		return described.Description()
	}

	return ""
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
