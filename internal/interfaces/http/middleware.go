package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "epi_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP por ruta y estado.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// storeChecker es lo que RequireStore necesita del monitor de salud.
// Lo implementa *docstore.HealthMonitor.
type storeChecker interface {
	Status() docstore.HealthStatus
}

// RequireStore corta con 503 mientras el último chequeo de salud haya fallado.
// Antes del primer chequeo deja pasar.
func RequireStore(checker storeChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := checker.Status()
		if !st.LastCheck.IsZero() && !st.Online {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "STORE_UNAVAILABLE",
				Message: domain.ErrStoreUnavailable.Error(),
			})
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición y alimenta el histograma de duración.
// La ruta se toma del patrón registrado, no del path, para acotar la cardinalidad.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el error handler de fiber todavía no escribió el estado
			if ferr := c.App().ErrorHandler(c, err); ferr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		requestDuration.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("petición HTTP")
		return nil
	}
}
