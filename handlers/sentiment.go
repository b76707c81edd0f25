package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dixter999/news-sentiment-sub000/aggregator"
)

const defaultWindow = 24 * time.Hour

// lookbackWindow reads the optional ?window= query param ("6h", "30m",
// "72h"). Missing or malformed values fall back to 24h.
func lookbackWindow(c *gin.Context) time.Duration {
	raw := strings.TrimSpace(c.Query("window"))
	if raw == "" {
		return defaultWindow
	}
	window, err := time.ParseDuration(raw)
	if err != nil || window <= 0 {
		return defaultWindow
	}
	return window
}

// CurrencySentimentHandler returns the impact-weighted sentiment for a
// single currency over the lookback window.
func CurrencySentimentHandler(c *gin.Context, agg *aggregator.Aggregator) {
	currency := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if len(currency) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency code must be 3 letters"})
		return
	}

	result, err := agg.CurrencySentiment(c.Request.Context(), currency, lookbackWindow(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PairSentimentHandler returns the directional signal for a currency pair.
func PairSentimentHandler(c *gin.Context, agg *aggregator.Aggregator) {
	result, err := agg.PairSentiment(c.Request.Context(), c.Param("pair"), lookbackWindow(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid currency pair") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
