package middleware

import (
	"strconv"
	"time"

	"portal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records the count and latency of every request by route pattern.
func Metrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	path := c.Route().Path
	metrics.HttpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
	metrics.HttpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
	return err
}
