package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createChargeRequest struct {
	InvoiceID string `json:"invoice_id"`
}

func (s *Server) CreateCharge(c *gin.Context) {
	var req createChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	charge, err := s.chargeSvc.Create(c.Request.Context(), req.InvoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": charge})
}
