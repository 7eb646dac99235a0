package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/evaluation"
)

const msgInvalidBody = "invalid request body"

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Debug("rejecting malformed body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody{Error: msgInvalidBody})
		return
	}

	start := time.Now()
	result, err := s.eval.Evaluate(c.Request.Context(), req)
	status := http.StatusOK
	if err != nil {
		status = evaluation.StatusCode(err)
	}
	if s.metrics != nil && req.Type.Valid() {
		s.metrics.ObserveEvaluation(string(req.Type), status, time.Since(start))
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, evaluation.Response{Evaluation: result})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := evaluation.StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("evaluation error",
			zap.Int("status", status),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, errorBody{Error: evaluation.PublicMessage(err)})
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
