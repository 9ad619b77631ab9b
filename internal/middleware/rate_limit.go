package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meds4you_back_end/internal/database"
)

// Seuils et fenêtres des limiteurs. Le login est compté par email,
// l'inscription et le trafic général par IP.
const (
	loginMaxFailures = 5
	loginBlock       = 15 * time.Minute

	registerMax   = 3
	registerBlock = 30 * time.Minute

	apiMaxPerWindow = 100
	apiWindow       = 1 * time.Minute
)

// tooManyRequests répond 429 avec le délai d'attente en secondes
func tooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       message,
		"retry_after": int(retryAfter.Seconds()),
	})
	c.Abort()
}

// LoginRateLimit bloque un email après trop d'échecs consécutifs.
// Le body est relu puis reposé pour que le handler de login le retrouve.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			// Body illisible : le handler renverra son propre 400
			c.Next()
			return
		}

		ctx := context.Background()
		failKey := "rl:login:fail:" + input.Email
		blockKey := "rl:login:block:" + input.Email

		if database.Redis.Exists(ctx, blockKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, blockKey).Val()
			tooManyRequests(c, fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())), ttl)
			return
		}

		failures, _ := database.Redis.Get(ctx, failKey).Int()
		if failures >= loginMaxFailures {
			database.Redis.Set(ctx, blockKey, "1", loginBlock)
			database.Redis.Del(ctx, failKey)
			tooManyRequests(c, fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(loginBlock.Minutes())), loginBlock)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			database.Redis.Incr(ctx, failKey)
			database.Redis.Expire(ctx, failKey, loginBlock)
		case http.StatusOK:
			// Connexion réussie, on repart de zéro
			database.Redis.Del(ctx, failKey)
			database.Redis.Del(ctx, blockKey)
		}
	}
}

// RegisterRateLimit limite les créations de compte par IP
func RegisterRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ip := c.ClientIP()
		countKey := "rl:register:count:" + ip
		blockKey := "rl:register:block:" + ip

		if database.Redis.Exists(ctx, blockKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, blockKey).Val()
			tooManyRequests(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(ttl.Minutes())), ttl)
			return
		}

		count, _ := database.Redis.Get(ctx, countKey).Int()
		if count >= registerMax {
			database.Redis.Set(ctx, blockKey, "1", registerBlock)
			database.Redis.Del(ctx, countKey)
			tooManyRequests(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(registerBlock.Minutes())), registerBlock)
			return
		}

		c.Next()

		// Seules les inscriptions abouties comptent
		if c.Writer.Status() == http.StatusCreated {
			database.Redis.Incr(ctx, countKey)
			database.Redis.Expire(ctx, countKey, registerBlock)
		}
	}
}

// APIRateLimit plafonne le trafic global par IP sur une fenêtre glissante
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "rl:api:" + c.ClientIP()

		used, _ := database.Redis.Get(ctx, key).Int()
		if used >= apiMaxPerWindow {
			tooManyRequests(c, "Trop de requêtes. Réessayez dans 1 minute", apiWindow)
			return
		}

		pipe := database.Redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, apiWindow)
		pipe.Exec(ctx)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", apiMaxPerWindow))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", apiMaxPerWindow-used-1))

		c.Next()
	}
}
