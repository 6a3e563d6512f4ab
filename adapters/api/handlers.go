package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleEvaluate runs one evaluation over inline datasets. Malformed payloads
// come back as 400, domain failures as 422 with an error kind, everything
// else as 500.
func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Current == nil {
		err := core.NewMissingDatasetError("current")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: "missing_dataset"})
		return
	}

	maxRows := s.cfg.Data.MaxInlineRows
	current, err := req.Current.toFrame(maxRows)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "current dataset: " + err.Error()})
		return
	}
	var reference *dataset.Frame
	if req.Reference != nil {
		reference, err = req.Reference.toFrame(maxRows)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reference dataset: " + err.Error()})
			return
		}
	}

	mapping := dataset.NewColumnMapping(s.cfg.Data.TargetColumn, s.cfg.Data.PredictionColumn)
	if req.Mapping != nil {
		mapping = dataset.NewColumnMapping(req.Mapping.Target, req.Mapping.Prediction)
	}
	if err := mapping.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := s.service.EvaluateFrames(c.Request.Context(), current, reference, mapping)
	if err != nil {
		s.writeEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) writeEvaluationError(c *gin.Context, err error) {
	if kind, ok := domainErrorKind(err); ok {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	s.logger.Error("Evaluation failed: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "evaluation failed"})
}

// domainErrorKind names the domain error category for API clients.
func domainErrorKind(err error) (string, bool) {
	switch {
	case core.IsMissingDatasetError(err):
		return "missing_dataset", true
	case core.IsMissingColumnError(err):
		return "missing_column", true
	case core.IsEmptyDatasetError(err):
		return "empty_dataset", true
	case core.IsComputationError(err):
		return "computation_failed", true
	}
	return "", false
}
