package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"github.com/Dixter999/news-sentiment-sub000/aggregator"
	"github.com/Dixter999/news-sentiment-sub000/handlers"
	"github.com/Dixter999/news-sentiment-sub000/processor"
)

func SetupRouter(firestoreClient *firestore.Client, proc *processor.Processor, agg *aggregator.Aggregator) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to the market sentiment engine!",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/score/events", func(c *gin.Context) {
			handlers.ScoreEventsHandler(c, proc)
		})
		api.POST("/score/posts", func(c *gin.Context) {
			handlers.ScorePostsHandler(c, proc)
		})

		api.GET("/sentiment/currency/:code", func(c *gin.Context) {
			handlers.CurrencySentimentHandler(c, agg)
		})
		api.GET("/sentiment/pair/:pair", func(c *gin.Context) {
			handlers.PairSentimentHandler(c, agg)
		})

		api.POST("/reprocess/failures", func(c *gin.Context) {
			handlers.ReprocessFailuresHandler(c, proc)
		})
		api.GET("/failures/summary", func(c *gin.Context) {
			handlers.FailureSummaryHandler(c, firestoreClient)
		})
	}

	return r
}
