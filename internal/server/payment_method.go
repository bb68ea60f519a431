package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentmethoddomain "github.com/paylane/billing/internal/paymentmethod/domain"
)

func (s *Server) CreatePaymentMethod(c *gin.Context) {
	var req paymentmethoddomain.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	method, err := s.paymentMethodSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": method})
}
