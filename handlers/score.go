package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dixter999/news-sentiment-sub000/processor"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

// ScoreEventsHandler scores a batch of economic events posted in the
// request body and persists each result.
func ScoreEventsHandler(c *gin.Context, proc *processor.Processor) {
	var events []types.EconomicEvent
	if err := c.ShouldBindJSON(&events); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload: " + err.Error()})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no events provided"})
		return
	}

	log.Printf("Scoring %d economic events", len(events))
	batch := proc.ScoreEvents(c.Request.Context(), events)

	c.JSON(http.StatusOK, gin.H{
		"batchId": batch.BatchID,
		"scored":  len(batch.Results),
		"results": batch.Results,
	})
}

// ScorePostsHandler scores a batch of social posts, skipping any that were
// already persisted.
func ScorePostsHandler(c *gin.Context, proc *processor.Processor) {
	var posts []types.SocialPost
	if err := c.ShouldBindJSON(&posts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post payload: " + err.Error()})
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no posts provided"})
		return
	}

	log.Printf("Scoring %d social posts", len(posts))
	batch := proc.ScorePosts(c.Request.Context(), posts)

	c.JSON(http.StatusOK, gin.H{
		"batchId": batch.BatchID,
		"scored":  len(batch.Results),
		"results": batch.Results,
	})
}
