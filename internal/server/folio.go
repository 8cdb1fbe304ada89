package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
)

// GetFolio returns the postings, payments, and running totals for one
// reservation in a single response.
func (s *Server) GetFolio(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	postings, err := s.folioSvc.ListPostings(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.folioSvc.ListPayments(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	totals, err := s.folioSvc.Totals(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"postings": postings,
		"payments": payments,
		"totals":   totals,
	}})
}

func (s *Server) AddPosting(c *gin.Context) {
	var req foliodomain.AddPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ReservationID = c.Param("id")

	resp, err := s.folioSvc.AddPosting(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddPayment(c *gin.Context) {
	var req foliodomain.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ReservationID = c.Param("id")

	resp, err := s.folioSvc.AddPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VoidPosting(c *gin.Context) {
	resp, err := s.folioSvc.VoidPosting(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
