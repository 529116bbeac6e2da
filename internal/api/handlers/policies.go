package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evcharge/internal/api/models"
)

// ListPolicies handles GET /api/v1/policies: a static description of the
// three supported admission/eviction policies.
func ListPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, []models.PolicyDescription{
		{
			Name:      "fifo",
			Admission: "present, not-full vehicles join the tail of a waiting queue",
			Eviction:  "only vehicles that become full (or leave) are dropped from charging; capacity shrink truncates from the tail",
		},
		{
			Name:      "round_robin",
			Admission: "waiting queue unused; charging is refilled by walking the vehicle list circularly each tick",
			Eviction:  "charging is emptied every tick and re-selected from the rotation",
		},
		{
			Name:      "priority",
			Admission: "waiting queue kept sorted by urgency score (day-total need minus battery ratio), descending",
			Eviction:  "charging is emptied every tick and re-selected from the freshly sorted waiting queue",
		},
	})
}
