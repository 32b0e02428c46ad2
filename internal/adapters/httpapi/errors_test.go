package httpapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/httpapi"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func TestErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", shared.NewNotFoundError("estimate", "missing"), http.StatusNotFound},
		{"validation", shared.NewValidationError("status", "estimate must be saved first"), http.StatusBadRequest},
		{"ballast leg", shared.NewBallastLegError(1, "remove"), http.StatusConflict},
		{"non-deletable leg", shared.NewNonDeletableLegError(2, "Santos"), http.StatusConflict},
		{"schedule", shared.NewScheduleError(3, "port days must be positive"), http.StatusConflict},
		{"stale response", fmt.Errorf("resolve: %w", appEstimate.ErrStaleResponse), http.StatusConflict},
		{"distance outage", fmt.Errorf("lookup: %w", routing.ErrDistanceUnavailable), http.StatusBadGateway},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mediator := helpers.NewMockMediator()
			mediator.SendFunc = func(ctx context.Context, request common.Request) (common.Response, error) {
				return nil, tt.err
			}
			server := httpapi.NewServer(httpapi.Deps{
				Mediator:  mediator,
				Generator: appEstimate.NewGenerator(&helpers.MockReferenceData{}, nil, nil),
			}, httpapi.Timeouts{})

			// Act
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/estimates/est-1/voyage", nil))

			// Assert
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, []string{"GenerateVoyageCommand"}, mediator.GetCallLog())
		})
	}
}
