package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func parsePathID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

// parsePeriodQuery reads month and year query params, defaulting both to
// the current period.
func parsePeriodQuery(c *gin.Context, now time.Time) (int, int, error) {
	month := int(now.Month())
	year := now.Year()

	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, newValidationError("month", "invalid_month", "invalid month")
		}
		month = parsed
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, newValidationError("year", "invalid_year", "invalid year")
		}
		year = parsed
	}
	return month, year, nil
}
