package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/cache"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyHeader is the request header carrying the client's idempotency key
const IdempotencyHeader = "Idempotency-Key"

const (
	idempotencyStoreTimeout = 2 * time.Second
	maxIdempotencyKeyLength = 128
)

// Idempotency replays the stored response of a repeated mutating request that
// carries the same Idempotency-Key. Requests without the header pass through.
func Idempotency(store *cache.IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		idemKey := strings.TrimSpace(c.Get(IdempotencyHeader))
		if idemKey == "" {
			return c.Next()
		}
		if len(idemKey) > maxIdempotencyKeyLength {
			return response.BadRequest(c, "Idempotency-Key is too long")
		}

		key := buildIdempotencyKey(c, idemKey)
		bodyHash := hashBody(c.Body())

		ctx, cancel := context.WithTimeout(c.UserContext(), idempotencyStoreTimeout)
		defer cancel()

		reserved, err := store.Reserve(ctx, key, bodyHash)
		if err != nil {
			log.Printf("⚠️ Idempotency store unavailable: %v", err)
			return response.Error(c, fiber.StatusServiceUnavailable, "Idempotency store unavailable")
		}
		if !reserved {
			entry, err := store.Load(ctx, key)
			if err != nil {
				if errors.Is(err, cache.ErrEntryNotFound) {
					return response.Conflict(c, "Request is already in progress")
				}
				log.Printf("⚠️ Failed to load idempotency entry %s: %v", key, err)
				return response.Error(c, fiber.StatusServiceUnavailable, "Idempotency store unavailable")
			}
			if entry.BodySHA256 != bodyHash {
				return response.Conflict(c, "Idempotency-Key reused with a different body")
			}
			if entry.InProgress {
				return response.Conflict(c, "Request is already in progress")
			}
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, entry.ContentType)
			return c.Status(entry.Code).Send(entry.Body)
		}

		if err := c.Next(); err != nil {
			release(store, key)
			return err
		}

		code := c.Response().StatusCode()
		if code >= fiber.StatusInternalServerError {
			release(store, key)
			return nil
		}

		entry := cache.IdempotencyEntry{
			Code:        code,
			Body:        append([]byte(nil), c.Response().Body()...),
			ContentType: string(c.Response().Header.ContentType()),
			BodySHA256:  bodyHash,
		}
		saveCtx, saveCancel := context.WithTimeout(context.Background(), idempotencyStoreTimeout)
		defer saveCancel()
		if err := store.Complete(saveCtx, key, entry); err != nil {
			log.Printf("⚠️ Failed to store idempotent response %s: %v", key, err)
		}
		return nil
	}
}

// buildIdempotencyKey scopes the client key to the route and the caller
func buildIdempotencyKey(c *fiber.Ctx, idemKey string) string {
	caller := "anon:" + c.IP()
	if session := CurrentSession(c); session != nil {
		caller = "user:" + session.Email
	}
	return "idemp:" + strings.ToLower(c.Method()) + ":" + c.Path() + ":" + caller + ":" + idemKey
}

func hashBody(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func release(store *cache.IdempotencyStore, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), idempotencyStoreTimeout)
	defer cancel()
	if err := store.Release(ctx, key); err != nil {
		log.Printf("⚠️ Failed to release idempotency key %s: %v", key, err)
	}
}
