package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
)

type runNightAuditRequest struct {
	RunBy    string `json:"run_by"`
	Finalize bool   `json:"finalize"`
}

// RunNightAudit triggers a reconciliation pass. Without finalize the run
// is a preview: issues and summary come back but nothing is persisted.
func (s *Server) RunNightAudit(c *gin.Context) {
	var req runNightAuditRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	resp, err := s.nightAuditSvc.Run(c.Request.Context(), nightauditdomain.RunOptions{
		RunBy:         req.RunBy,
		Finalize:      req.Finalize,
		TZOffsetHours: s.cfg.AuditTZOffsetHours,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAuditRunLog(c *gin.Context) {
	resp, err := s.nightAuditSvc.GetRunLog(c.Request.Context(), c.Param("businessDay"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AcknowledgeAuditIssue(c *gin.Context) {
	resp, err := s.nightAuditSvc.AcknowledgeIssue(c.Request.Context(), c.Param("issueKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
