package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware authorizes requests with the access token issued
// at login, from the Authorization header or the token cookie. The token
// subject must match the identity the session store currently holds.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		accessToken, _ = c.Cookie(accessTokenCookie)
	}
	if accessToken == "" {
		h.logger.Error().Msg("missing access token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.parseAccessToken(accessToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse access token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user := h.session.Identity()
	if user == nil || user.UID != claims.Subject {
		h.logger.Warn().
			Str("subject", claims.Subject).
			Msg("access token does not match the active session")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, user.UID)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	const bearerPrefix = "Bearer"

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return ""
	}
	return parts[1]
}

func (h *handlerImpl) parseAccessToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSigningKey, nil
		},
		jwt.WithIssuer(h.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return claims, nil
}
