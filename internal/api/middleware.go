package api

import (
	"coursell/backend/internal/domain"
	"coursell/backend/internal/events"
	"coursell/backend/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextPrincipalIDKey   = "principalID"
	ContextPrincipalKindKey = "principalKind"
	ContextRequestIDKey     = "requestID"

	RequestIDHeader = "X-Request-ID"
)

var (
	errMissingToken  = errors.New("missing token")
	errBadAuthHeader = errors.New("malformed authorization header")
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errBadAuthHeader
	}
	return parts[1], nil
}

func otherKind(kind domain.PrincipalKind) domain.PrincipalKind {
	if kind == domain.PrincipalAdmin {
		return domain.PrincipalUser
	}
	return domain.PrincipalAdmin
}

// AuthMiddleware admits only tokens of the given kind. A valid token of the
// other kind is answered with 403, anything else with 401.
func AuthMiddleware(tokens service.TokenService, kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			if errors.Is(err, errMissingToken) {
				abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			}
			return
		}

		id, err := tokens.Parse(kind, tokenString)
		if err != nil {
			if _, otherErr := tokens.Parse(otherKind(kind), tokenString); otherErr == nil {
				abortWithError(c, http.StatusForbidden, "Access denied: "+string(kind)+" token required")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextPrincipalIDKey, id)
		c.Set(ContextPrincipalKindKey, kind)
		c.Next()
	}
}

func UserAuth(tokens service.TokenService) gin.HandlerFunc {
	return AuthMiddleware(tokens, domain.PrincipalUser)
}

func AdminAuth(tokens service.TokenService) gin.HandlerFunc {
	return AuthMiddleware(tokens, domain.PrincipalAdmin)
}

// OptionalAuth identifies the caller when a valid token of either kind is
// present. Missing or invalid tokens leave the request anonymous.
func OptionalAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err == nil {
			for _, kind := range []domain.PrincipalKind{domain.PrincipalUser, domain.PrincipalAdmin} {
				if id, err := tokens.Parse(kind, tokenString); err == nil {
					c.Set(ContextPrincipalIDKey, id)
					c.Set(ContextPrincipalKindKey, kind)
					break
				}
			}
		}
		c.Next()
	}
}

// principalID returns the authenticated principal's id. Routes behind
// AuthMiddleware always have one.
func principalID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get(ContextPrincipalIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := raw.(primitive.ObjectID)
	return id, ok
}

func viewerFrom(c *gin.Context) service.Viewer {
	id, ok := principalID(c)
	if !ok {
		return service.Viewer{}
	}
	kind, _ := c.Get(ContextPrincipalKindKey)
	k, _ := kind.(domain.PrincipalKind)
	return service.Viewer{Kind: k, ID: id}
}

// RequestID propagates or assigns X-Request-ID and stores it in the request
// context for services.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Request = c.Request.WithContext(events.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", requestIDFrom(c)),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns panics into a logged 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("request_id", requestIDFrom(c)),
			zap.String("path", c.Request.URL.Path),
		)
		abortWithError(c, http.StatusInternalServerError, internalErrorMessage)
	})
}

// SecurityHeaders sets conservative browser security headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		c.Next()
	}
}

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
