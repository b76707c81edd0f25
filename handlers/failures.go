package handlers

import (
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"github.com/Dixter999/news-sentiment-sub000/db"
	"github.com/Dixter999/news-sentiment-sub000/processor"
)

// ReprocessFailuresHandler retries every failed score persisted inside the
// lookback window.
func ReprocessFailuresHandler(c *gin.Context, proc *processor.Processor) {
	since := time.Now().UTC().Add(-lookbackWindow(c))

	log.Printf("Reprocessing failed scores since %s", since.Format(time.RFC3339))
	summary, err := proc.ReprocessFailures(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// FailureSummaryHandler tallies stored scoring and image failures by kind
// over the lookback window.
func FailureSummaryHandler(c *gin.Context, firestoreClient *firestore.Client) {
	end := time.Now().UTC()
	start := end.Add(-lookbackWindow(c))

	counts, err := db.FailureSummary(c.Request.Context(), firestoreClient, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":    start.Format(time.RFC3339),
		"end":      end.Format(time.RFC3339),
		"failures": counts,
	})
}
