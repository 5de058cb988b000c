package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetClientReport(c *gin.Context) {
	month, year, err := parsePeriodQuery(c, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.BuildClientReport(c.Request.Context(), month, year, reportActor(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) GetEmployeeReport(c *gin.Context) {
	month, year, err := parsePeriodQuery(c, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.BuildEmployeeReport(c.Request.Context(), month, year, reportActor(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) GetFinanceReport(c *gin.Context) {
	month, year, err := parsePeriodQuery(c, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.BuildFinanceReport(c.Request.Context(), month, year, reportActor(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// RebuildReports regenerates all three snapshots for one period in a
// single call.
func (s *Server) RebuildReports(c *gin.Context) {
	month, year, err := parsePeriodQuery(c, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	actor := reportActor(c)

	client, err := s.reportSvc.BuildClientReport(ctx, month, year, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	employee, err := s.reportSvc.BuildEmployeeReport(ctx, month, year, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	finance, err := s.reportSvc.BuildFinanceReport(ctx, month, year, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"month":    month,
		"year":     year,
		"client":   client.Summary,
		"employee": employee.Summary,
		"finance":  finance.Summary,
	}})
}

func reportActor(c *gin.Context) string {
	return strings.TrimSpace(c.Query("generated_by"))
}
