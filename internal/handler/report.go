package handler

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/repository"
	"github.com/iliyamo/commerce-admin-api/internal/utils"
)

// Report thresholds and list sizes.  The dashboard compares each headline
// number against the equal-length preceding window.
const (
	lowStockThreshold = 10
	recentOrderLimit  = 5
	topListLimit      = 10
)

// monitoringStats is the slice of the monitoring repository the reports
// read: session counts feed the bounce rate and page timings feed the
// performance report.
type monitoringStats interface {
	SessionCounts(ctx context.Context, since, until time.Time) (total, single int64, err error)
	AvgPageTiming(ctx context.Context, since, until time.Time) (loadMs, ttfbMs float64, err error)
}

// ReportHandler serves the dashboard and analytics endpoints.  Everything
// here is read-only; the route layer puts these GETs behind the Redis
// response cache.
type ReportHandler struct {
	Reports    *repository.ReportRepo
	Monitoring monitoringStats
}

func NewReportHandler(r *repository.ReportRepo, m monitoringStats) *ReportHandler {
	return &ReportHandler{Reports: r, Monitoring: m}
}

type metricWithGrowth struct {
	Value  int64   `json:"value"`
	Growth float64 `json:"growth"`
}

// Dashboard returns the admin landing numbers over a 7d default window.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "7d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Reports.SalesTotals(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	prev, err := h.Reports.SalesTotals(ctx, w.PrevStart, w.Start)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	newCust, err := h.Reports.NewCustomers(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	prevCust, err := h.Reports.NewCustomers(ctx, w.PrevStart, w.Start)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	products, err := h.Reports.ProductCount(ctx)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	lowStock, err := h.Reports.LowStockCount(ctx, lowStockThreshold)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	recent, err := h.Reports.RecentOrders(ctx, recentOrderLimit)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period": w.Period,
		"total_revenue": metricWithGrowth{
			Value:  cur.RevenueCents,
			Growth: utils.Growth(float64(cur.RevenueCents), float64(prev.RevenueCents)),
		},
		"total_orders": metricWithGrowth{
			Value:  cur.Orders,
			Growth: utils.Growth(float64(cur.Orders), float64(prev.Orders)),
		},
		"new_customers": metricWithGrowth{
			Value:  newCust,
			Growth: utils.Growth(float64(newCust), float64(prevCust)),
		},
		"total_products":  products,
		"low_stock_count": lowStock,
		"recent_orders":   recent,
	})
}

// SalesAnalytics returns windowed sales totals, growth and a zero-filled
// per-day series (oldest day first).
func (h *ReportHandler) SalesAnalytics(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "30d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Reports.SalesTotals(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	prev, err := h.Reports.SalesTotals(ctx, w.PrevStart, w.Start)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	daily, err := h.Reports.DailySales(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	var avgOrder int64
	if cur.Orders > 0 {
		avgOrder = cur.RevenueCents / cur.Orders
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period":                    w.Period,
		"total_orders":              cur.Orders,
		"total_revenue":             cur.RevenueCents,
		"average_order_value_cents": avgOrder,
		"orders_growth":             utils.Growth(float64(cur.Orders), float64(prev.Orders)),
		"revenue_growth":            utils.Growth(float64(cur.RevenueCents), float64(prev.RevenueCents)),
		"sales_by_day":              fillDailySeries(daily, w.Start, w.End),
	})
}

// UserAnalytics reports signup and activity numbers.
func (h *ReportHandler) UserAnalytics(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "30d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	newUsers, err := h.Reports.NewCustomers(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	prevUsers, err := h.Reports.NewCustomers(ctx, w.PrevStart, w.Start)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	active, err := h.Reports.ActiveUsers(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	signups, err := h.Reports.SignupsByDay(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	roles, err := h.Reports.RoleBreakdown(ctx)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period":         w.Period,
		"new_users":      newUsers,
		"active_users":   active,
		"signups_growth": utils.Growth(float64(newUsers), float64(prevUsers)),
		"signups_by_day": fillDayCounts(signups, w.Start, w.End),
		"roles":          roles,
	})
}

// ProductAnalytics ranks products and categories by windowed sales and
// lists low-stock items.
func (h *ReportHandler) ProductAnalytics(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "30d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	top, err := h.Reports.TopProducts(ctx, w.Start, w.End, topListLimit)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	categories, err := h.Reports.CategoryBreakdown(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	low, err := h.Reports.LowStock(ctx, lowStockThreshold, topListLimit)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period":       w.Period,
		"top_products": top,
		"categories":   categories,
		"low_stock":    low,
	})
}

// CustomerAnalytics reports purchase-behaviour rates.  The bounce rate
// comes from behaviour sessions: sessions with exactly one event over the
// total, as a percentage, zero when no sessions landed in the window.
func (h *ReportHandler) CustomerAnalytics(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "30d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	buyers, repeat, err := h.Reports.BuyerCounts(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	totals, err := h.Reports.SalesTotals(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	top, err := h.Reports.TopCustomers(ctx, w.Start, w.End, topListLimit)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	sessions, single, err := h.Monitoring.SessionCounts(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	var repeatRate, avgOrders, bounceRate float64
	if buyers > 0 {
		repeatRate = rate(repeat, buyers)
		avgOrders = float64(totals.Orders) / float64(buyers)
	}
	if sessions > 0 {
		bounceRate = rate(single, sessions)
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period":                      w.Period,
		"repeat_purchase_rate":        repeatRate,
		"average_orders_per_customer": avgOrders,
		"top_customers":               top,
		"bounce_rate":                 bounceRate,
	})
}

// PerformanceAnalytics reports mean page load time and TTFB from the
// performance events, with the previous window for comparison.  Windows
// with no samples report zeros.
func (h *ReportHandler) PerformanceAnalytics(c echo.Context) error {
	w := utils.ParsePeriod(c.QueryParam("period"), "30d")
	ctx, cancel := reqCtx(c)
	defer cancel()

	loadMs, ttfbMs, err := h.Monitoring.AvgPageTiming(ctx, w.Start, w.End)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	prevLoad, prevTTFB, err := h.Monitoring.AvgPageTiming(ctx, w.PrevStart, w.Start)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"period":           w.Period,
		"avg_load_ms":      loadMs,
		"avg_ttfb_ms":      ttfbMs,
		"prev_avg_load_ms": prevLoad,
		"prev_avg_ttfb_ms": prevTTFB,
		"load_growth":      utils.Growth(loadMs, prevLoad),
	})
}

// rate returns part/whole as a percentage rounded to two decimals.
func rate(part, whole int64) float64 {
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
