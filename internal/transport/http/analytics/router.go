package analytics

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/watchlist"
)

// Router serves SMA analytics as JSON and as an HTML chart page.
type Router struct {
	collector   *collector.Collector
	watchlist   *watchlist.Manager
	shortPeriod int
	longPeriod  int
	log         *zap.Logger
}

// NewRouter creates a new analytics router. Missing period parameters fall
// back to shortPeriod and longPeriod.
func NewRouter(col *collector.Collector, wl *watchlist.Manager, shortPeriod, longPeriod int, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		collector:   col,
		watchlist:   wl,
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		log:         log,
	}
}

// Register registers the analytics routes.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/healthz", r.handleHealth)
	group.GET("/analytics", r.handleChart)

	api := group.Group("/api")
	api.GET("/crossovers", r.handleCrossovers)
	api.GET("/window", r.handleWindow)
	api.GET("/watchlist", r.handleWatchlist)
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": r.collector.Fetcher.Name()})
}

func (r *Router) handleChart(c *gin.Context) {
	symbol, short, long, ok := r.crossoverParams(c, "period1", "period2")
	if !ok {
		return
	}

	var buf bytes.Buffer
	rep, err := r.collector.Crossovers(c.Request.Context(), symbol, short, long)
	switch {
	case errors.Is(err, collector.ErrInsufficientData):
		err = renderMessageChart(&buf, NoSMAData)
	case err != nil:
		r.providerError(c, symbol, err)
		return
	default:
		err = renderCrossoverChart(&buf, rep)
	}
	if err != nil {
		r.log.Error("render chart", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render chart failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Router) handleCrossovers(c *gin.Context) {
	symbol, short, long, ok := r.crossoverParams(c, "short", "long")
	if !ok {
		return
	}
	rep, err := r.collector.Crossovers(c.Request.Context(), symbol, short, long)
	if errors.Is(err, collector.ErrInsufficientData) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": NoSMAData})
		return
	}
	if err != nil {
		r.providerError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (r *Router) handleWindow(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}
	kind, err := model.ParseWindowKind(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := r.collector.Window(c.Request.Context(), symbol, kind)
	if errors.Is(err, collector.ErrInsufficientData) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not enough data", "window": w})
		return
	}
	if err != nil {
		r.providerError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (r *Router) handleWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": r.watchlist.List()})
}

func (r *Router) crossoverParams(c *gin.Context, shortKey, longKey string) (string, int, int, bool) {
	symbol, ok := symbolParam(c)
	if !ok {
		return "", 0, 0, false
	}
	short, err := periodParam(c, shortKey, r.shortPeriod)
	if err == nil {
		var long int
		if long, err = periodParam(c, longKey, r.longPeriod); err == nil {
			return symbol, short, long, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	return "", 0, 0, false
}

func (r *Router) providerError(c *gin.Context, symbol string, err error) {
	r.log.Error("analytics request failed", zap.String("symbol", symbol), zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func symbolParam(c *gin.Context) (string, bool) {
	symbol, err := watchlist.Normalize(c.Query("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return symbol, true
}

var errBadPeriod = errors.New("period must be a positive integer")

func periodParam(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errBadPeriod
	}
	return n, nil
}
