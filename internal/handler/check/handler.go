package check

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/TomasB/geotariff/internal/data"
	"github.com/gin-gonic/gin"
)

// CheckRequest represents the JSON body for a tariff check.
type CheckRequest struct {
	IP string `json:"ip" binding:"required"`
}

// CheckResponse represents the JSON response for a tariff check.
type CheckResponse struct {
	Country string `json:"country"`
	DelayMs int64  `json:"delay_ms"`
	Error   string `json:"error"`
}

// Explainer reports the country and delay the tariff policy assigns to an IP.
type Explainer interface {
	Explain(ip net.IP) (data.CountryCode, time.Duration)
}

// Handler manages tariff check endpoints.
type Handler struct {
	policy Explainer
}

// NewHandler creates a new check handler with the given policy.
func NewHandler(policy Explainer) *Handler {
	return &Handler{policy: policy}
}

// Check handles POST /api/v1/check
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CheckResponse{
			Error: "invalid request: " + err.Error(),
		})
		return
	}

	slog.Debug("check request received", "ip", req.IP)

	ip := net.ParseIP(req.IP)
	if ip == nil {
		c.JSON(http.StatusBadRequest, CheckResponse{
			Error: "invalid IP address",
		})
		return
	}

	country, delay := h.policy.Explain(ip)

	c.JSON(http.StatusOK, CheckResponse{
		Country: string(country),
		DelayMs: delay.Milliseconds(),
	})
}
