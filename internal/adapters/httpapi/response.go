package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// Response is the envelope of every API answer
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Messages []string    `json:"messages,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func fail(c *gin.Context, status int, message string, details ...string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message, Messages: details})
}

// writeError maps domain and transport errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		validation   *shared.ValidationError
		notFound     *shared.NotFoundError
		ballast      *shared.BallastLegError
		nonDeletable *shared.NonDeletableLegError
		scheduleErr  *shared.ScheduleError
		invalid      validator.ValidationErrors
	)
	switch {
	case errors.As(err, &invalid):
		details := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			details = append(details, fe.Namespace()+" failed "+fe.Tag())
		}
		fail(c, http.StatusBadRequest, "invalid request", details...)
	case errors.As(err, &validation):
		fail(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &ballast):
		fail(c, http.StatusConflict, ballast.Error())
	case errors.As(err, &nonDeletable):
		fail(c, http.StatusConflict, nonDeletable.Error())
	case errors.As(err, &scheduleErr):
		fail(c, http.StatusConflict, scheduleErr.Error())
	case errors.Is(err, appEstimate.ErrStaleResponse):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, routing.ErrDistanceUnavailable):
		fail(c, http.StatusBadGateway, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
