package jobgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/veedubyou/stem-splitter-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-splitter-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-splitter-be/src/server/internal/lib/request"
	joberrors "github.com/veedubyou/stem-splitter-be/src/server/internal/splitjob/errors"
	jobusecase "github.com/veedubyou/stem-splitter-be/src/server/internal/splitjob/usecase"
)

type Gateway struct {
	usecase jobusecase.Usecase
}

func NewGateway(usecase jobusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

type createJobRequest struct {
	OriginalURL string `json:"original_url"`
	Variant     string `json:"variant"`
}

func (g Gateway) CreateJob(c echo.Context) error {
	ctx := request.Context(c)

	jobRequest := createJobRequest{}
	err := c.Bind(&jobRequest)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to job request object")
		apiErr := api.CommitError(err,
			joberrors.BadJobDataCode,
			"The job request data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	job, apiErr := g.usecase.CreateJob(ctx, jobRequest.OriginalURL, jobRequest.Variant)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}

func (g Gateway) GetJob(c echo.Context, jobID string) error {
	ctx := request.Context(c)

	job, apiErr := g.usecase.GetJob(ctx, jobID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get the split job")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}
