package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the cache
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyKeyTTL is how long keys are valid when no TTL is configured
	DefaultIdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	TTL    time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST is retried with the
// same Idempotency-Key and body. A key reused with a different body is
// rejected with 422. Only 2xx responses are stored so failed requests
// can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = DefaultIdempotencyKeyTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("idempotency")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Unable to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		requestHash := hashRequestBody(body)

		endpoint := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, endpoint)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.String("endpoint", endpoint), zap.Error(err))
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired(config.Now()) {
			if existing.RequestHash != requestHash {
				log.Warn("idempotency key reused with a different body",
					zap.String("endpoint", endpoint), zap.String("key", idempotencyKey))
				response.ErrorWithCode(c, http.StatusUnprocessableEntity,
					"Idempotency-Key has already been used with a different request")
				c.Abort()
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		if existing != nil {
			// expired entry for the same key; drop it before storing the fresh one
			if _, err := config.Repo.DeleteExpired(ctx, config.Now()); err != nil {
				log.Warn("failed to purge expired idempotency keys", zap.Error(err))
			}
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			Endpoint:     endpoint,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    config.Now().Add(config.TTL),
		}
		if err := config.Repo.Create(ctx, ikey); err != nil {
			log.Warn("failed to store idempotency key", zap.String("endpoint", endpoint), zap.Error(err))
		}
	}
}

func hashRequestBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
