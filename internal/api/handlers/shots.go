package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/shotlog"
)

// ListShots returns the most recent planning cycles
func ListShots(rec *shotlog.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		cycles, err := rec.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[SHOTLOG] recent query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if cycles == nil {
			c.JSON(http.StatusOK, gin.H{"cycles": []any{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cycles": cycles})
	}
}

// LastPlan returns the most recent successful plan event
func LastPlan(rec *shotlog.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok, err := rec.LastPlan(c.Request.Context())
		if err != nil {
			log.Printf("[SHOTLOG] last plan lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no plan yet"})
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}
