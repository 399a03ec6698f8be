package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/services"
	"lecture-rag-backend/utils"
)

// SetupQARoutes registers the question answering endpoint.
func SetupQARoutes(router *gin.Engine, qa *services.QAWorkflow) {
	router.GET("/ask", func(c *gin.Context) {
		question := strings.TrimSpace(c.Query("question"))
		if question == "" {
			utils.RespondWithBadRequest(c, "question query parameter is required", nil)
			return
		}

		answer, err := qa.Ask(c.Request.Context(), question)
		if err != nil {
			logger.Error("Question answering failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to answer question", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"answer": answer})
	})
}
