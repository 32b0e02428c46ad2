package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

func (s *Server) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if !s.bind(c, &req) {
		return
	}
	if req.VesselID == 0 && req.VesselName == "" {
		writeError(c, shared.NewValidationError("vesselId", "vesselId or vesselName is required"))
		return
	}
	ctx := c.Request.Context()

	fleet, err := s.deps.Generator.Candidates(ctx, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	v, ok := estimate.FindVessel(fleet, req.VesselID, req.VesselName)
	if !ok {
		key := req.VesselName
		if req.VesselID != 0 {
			key = strconv.Itoa(req.VesselID)
		}
		writeError(c, shared.NewNotFoundError("vessel", key))
		return
	}

	id := s.deps.Sessions.NewID()
	logger := s.deps.Logger
	if s.deps.SessionLogs != nil {
		logger = common.MultiLogger{s.deps.Logger, persistence.NewSessionLogger(s.deps.SessionLogs, id)}
	}
	sess := s.deps.Generator.NewSession(id, *v, req.Cargoes, s.deps.Generator.LoadInputs(ctx), logger)
	s.deps.Sessions.Add(sess)

	view := SessionView{}
	if !req.SkipResolve {
		view.DistanceWarning = s.resolve(c, sess)
	}
	view.SessionSnapshot = sess.Snapshot()
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: view})
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	success(c, SessionView{SessionSnapshot: sess.Snapshot()})
}

func (s *Server) closeSession(c *gin.Context) {
	if _, ok := s.session(c); !ok {
		return
	}
	s.deps.Sessions.Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionLogs(c *gin.Context) {
	if s.deps.SessionLogs == nil {
		fail(c, http.StatusNotImplemented, "session logs are not persisted")
		return
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	var level *string
	if raw := c.Query("level"); raw != "" {
		level = &raw
	}

	logs, err := s.deps.SessionLogs.GetLogs(c.Request.Context(), c.Param("id"), limit, level, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, logs)
}

func (s *Server) addPortCall(c *gin.Context) {
	var req AddPortCallRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.AddPortCall(req.AfterIndex), nil
	})
}

func (s *Server) removePortCall(c *gin.Context) {
	legID, err := strconv.Atoi(c.Param("legId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "leg id must be an integer")
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.RemovePortCall(legID)
	})
}

func (s *Server) updateField(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		fail(c, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}
	var req UpdateFieldRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.UpdateField(index, req.Field, req.Value)
	})
}

func (s *Server) movePortCall(c *gin.Context) {
	var req MoveRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.MovePortCall(req.From, req.To), nil
	})
}

func (s *Server) setLoadPorts(c *gin.Context) {
	var req PortsRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.SetLoadPorts(req.Ports), nil
	})
}

func (s *Server) setDischargePorts(c *gin.Context) {
	var req PortsRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.SetDischargePorts(req.Ports), nil
	})
}

func (s *Server) switchRoutingPoint(c *gin.Context) {
	var req RoutingRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.SwitchRoutingPoint(req.Index, req.Name), nil
	})
}

func (s *Server) addRoutingPoint(c *gin.Context) {
	var req RoutingRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		return sess.AddRoutingPointFromAvailable(req.Index, req.Name), nil
	})
}

func (s *Server) updateSpeeds(c *gin.Context) {
	var req SpeedsRequest
	if !s.bind(c, &req) {
		return
	}
	s.edit(c, func(sess *appEstimate.Session) (schedule.Schedule, error) {
		prices := req.Prices
		if len(prices) == 0 {
			prices = s.deps.Generator.LoadInputs(c.Request.Context()).Prices
		}
		return sess.UpdateVesselSpeeds(req.BallastSpeed, req.LadenSpeed, prices), nil
	})
}

func (s *Server) resolveDistances(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if _, err := sess.ProcessPortCallDistance(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	success(c, SessionView{SessionSnapshot: sess.Snapshot()})
}

// edit applies fn to the addressed session, then resolves any distance the
// edit introduced. A failed resolution is reported, not fatal.
func (s *Server) edit(c *gin.Context, fn func(*appEstimate.Session) (schedule.Schedule, error)) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if _, err := fn(sess); err != nil {
		writeError(c, err)
		return
	}
	view := SessionView{DistanceWarning: s.resolve(c, sess)}
	view.SessionSnapshot = sess.Snapshot()
	success(c, view)
}

func (s *Server) resolve(c *gin.Context, sess *appEstimate.Session) string {
	_, err := sess.ProcessPortCallDistance(c.Request.Context())
	switch {
	case err == nil:
		return ""
	case errors.Is(err, appEstimate.ErrStaleResponse):
		return "distance response superseded by a newer edit"
	default:
		_ = c.Error(err)
		return err.Error()
	}
}

func (s *Server) session(c *gin.Context) (*appEstimate.Session, bool) {
	sess, err := s.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return sess, true
}
