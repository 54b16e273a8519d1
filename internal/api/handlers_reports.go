package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loyalty-system/internal/service"
)

// reportsHandler handles GET /api/admin/reports/.
//
// Query parameters select the window:
//
//	?date=2024-03-15         one local day
//	?range=today|month|year  rolling windows anchored at midnight
//	?month=2024-03           one calendar month
//	?range=all               the full transaction log
//
// With no parameters the report covers today.
func reportsHandler(reports *service.ReportService, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if d := c.Query("date"); d != "" {
			date, err := time.ParseInLocation("2006-01-02", d, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			report, err := reports.ForDate(ctx, date, loc)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, report)
			return
		}

		if m := c.Query("month"); m != "" {
			start, err := time.ParseInLocation("2006-01", m, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
				return
			}
			report, err := reports.ForWindow(ctx, start, start.AddDate(0, 1, 0))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, report)
			return
		}

		now := time.Now().In(loc)
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

		var (
			report *service.Report
			err    error
		)
		switch c.DefaultQuery("range", "today") {
		case "today":
			report, err = reports.ForWindow(ctx, midnight, midnight.AddDate(0, 0, 1))
		case "month":
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			report, err = reports.ForWindow(ctx, start, start.AddDate(0, 1, 0))
		case "year":
			start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
			report, err = reports.ForWindow(ctx, start, start.AddDate(1, 0, 0))
		case "all":
			report, err = reports.ForAll(ctx)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "range must be today, month, year or all"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// financialLedgerHandler handles GET /api/admin/reports/financial/.
// Optional from/to parameters (YYYY-MM-DD) bound the window; the default is
// the current month.
func financialLedgerHandler(reports *service.ReportService, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().In(loc)
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		to := from.AddDate(0, 1, 0)

		if f := c.Query("from"); f != "" {
			parsed, err := time.ParseInLocation("2006-01-02", f, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
				return
			}
			from = parsed
		}
		if t := c.Query("to"); t != "" {
			parsed, err := time.ParseInLocation("2006-01-02", t, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
				return
			}
			to = parsed.AddDate(0, 0, 1)
		}

		entries, err := reports.FinancialEntries(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
