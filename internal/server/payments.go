package server

import (
	"net/http"

	ledgerdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ProcessPayment(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req ledgerdomain.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.EntityID = id

	record, err := s.ledgerSvc.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) ListEntityPayments(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.ledgerSvc.ListForEntity(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
