package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	libredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/config"
)

// NewLimiter construye el limitador por IP. Con RedisURL se comparte el contador
// entre réplicas; sin él se usa el store en memoria del proceso.
func NewLimiter(cfg config.RateLimitConfig) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", cfg.Rate, err)
	}
	if cfg.RedisURL == "" {
		return limiter.New(memory.NewStore(), rate), nil
	}
	opts, err := libredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	store, err := sredis.NewStoreWithOptions(libredis.NewClient(opts), limiter.StoreOptions{
		Prefix: "crm_rate_limit",
	})
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	return limiter.New(store, rate), nil
}

// RateLimit middleware Fiber sobre ulule/limiter. Clave: IP del cliente.
func RateLimit(l *limiter.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		lctx, err := l.Get(c.UserContext(), ip)
		if err != nil {
			zerolog.Ctx(c.UserContext()).Error().Err(err).Str("ip", ip).Msg("rate limit: fallo al consultar el store")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno al verificar el límite de peticiones"})
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		if lctx.Reached {
			zerolog.Ctx(c.UserContext()).Warn().Str("ip", ip).Int64("limit", lctx.Limit).Msg("rate limit excedido")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
