package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL = 30 * time.Second
	idempotencyLockVal = "locked"
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func IdempotencyCacheKey(path, userID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", path, userID, key)
}

// Idempotency replays the stored 2xx response for a repeated Idempotency-Key on POST
// and rejects a duplicate that arrives while the first request is still running.
// Redis failures fail open.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID := c.GetString("user_id_validated")
		if userID == "" {
			userID = c.GetString("user_id")
		}
		cacheKey := IdempotencyCacheKey(c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		case !errors.Is(err, redis.Nil):
			log.Warn("idempotency cache read failed", zap.String("key", cacheKey), zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, idempotencyLockVal, idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			abort(c, ErrRequestInProgress)
			return
		}
		defer func() {
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				log.Warn("idempotency unlock failed", zap.String("key", lockKey), zap.Error(err))
			}
		}()

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || !json.Valid(writer.body.Bytes()) {
			return
		}

		data, err := json.Marshal(cachedResponse{Status: status, Body: writer.body.Bytes()})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, string(data), ttl).Err(); err != nil {
			log.Warn("idempotency cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
