package server

import (
	"net/http"
	"strings"
	"time"

	financedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createFinanceEntryRequest struct {
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   *time.Time      `json:"entry_date"`
}

func (s *Server) CreateFinanceEntry(c *gin.Context) {
	var req createFinanceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	now := s.clock.Now()
	entryDate := now
	if req.EntryDate != nil && !req.EntryDate.IsZero() {
		entryDate = req.EntryDate.UTC()
	}

	entry := &financedomain.Entry{
		ID:          s.genID.Generate(),
		Kind:        financedomain.EntryKind(strings.TrimSpace(req.Kind)),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		EntryDate:   entryDate,
		CreatedAt:   now,
	}
	if err := s.financeRepo.Create(c.Request.Context(), entry); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}
