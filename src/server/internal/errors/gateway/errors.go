package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-splitter-be/src/server/api_error"
	"github.com/veedubyou/stem-splitter-be/src/server/internal/errors/api"
	joberrors "github.com/veedubyou/stem-splitter-be/src/server/internal/splitjob/errors"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:      http.StatusInternalServerError,
	joberrors.JobNotFoundCode: http.StatusNotFound,
	joberrors.BadJobDataCode:  http.StatusBadRequest,
	joberrors.JobUnqueuedCode: http.StatusInternalServerError,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
