package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// getPortDistance serves the distance service wire contract: a JSON array of
// port pairs in, a JSON array of results out, without the response envelope
func (s *Server) getPortDistance(c *gin.Context) {
	var body portPairs
	if err := c.ShouldBindJSON(&body.Pairs); err != nil {
		fail(c, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(c, err)
		return
	}

	results, err := s.deps.Distances.GetPortDistance(c.Request.Context(), body.Pairs)
	if err != nil {
		writeError(c, err)
		return
	}
	if results == nil {
		results = []routing.DistanceResult{}
	}
	c.JSON(http.StatusOK, results)
}
