package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasknest-app/tasknest/internal/identity"
	"github.com/tasknest-app/tasknest/internal/models"
)

const accessTokenCookie = "access_token"

type loginRequest struct {
	IDToken        string `json:"idToken"`
	FailureCode    string `json:"failureCode"`
	FailureMessage string `json:"failureMessage"`
}

type userResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

func newUserResponse(user *models.UserIdentity) userResponse {
	return userResponse{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}
}

// HandleLogin accepts the outcome of the client's interactive sign-in:
// either a provider ID token or the failure code its popup flow produced.
func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	if req.IDToken == "" && req.FailureCode == "" {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result := h.session.Login(c, identity.Credential{
		IDToken:        req.IDToken,
		FailureCode:    req.FailureCode,
		FailureMessage: req.FailureMessage,
	})
	if !result.Success {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": result.Message,
		})
		return
	}

	accessToken, expiresAt, err := h.issueAccessToken(result.Identity.UID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	setAccessTokenCookie(c, accessToken, time.Until(expiresAt))

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"user":        newUserResponse(result.Identity),
		"accessToken": accessToken,
		"expiresAt":   expiresAt,
	})
}

// HandleSession implements the navigation-guard contract: the persisted
// hint answers fast, and only a miss falls through to a full identity
// resolution.
func (h *handlerImpl) HandleSession(c *gin.Context) {
	if h.session.HasValidSession() {
		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"fastPath": true,
		})
		return
	}

	user, err := h.session.Initialize(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to resolve session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"valid":    false,
			"redirect": "/login",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"fastPath": false,
		"user":     newUserResponse(user),
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	err := h.session.Logout(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	clearCookie(c, accessTokenCookie)
	c.Status(http.StatusNoContent)
}

// HandleMe returns the derived profile accessors with their documented
// fallbacks applied.
func (h *handlerImpl) HandleMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"displayName": h.session.DisplayName(),
		"email":       h.session.Email(),
		"avatarURL":   h.session.AvatarURL(),
	})
}

func (h *handlerImpl) issueAccessToken(uid string) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(h.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    h.jwtIssuer,
		Subject:   uid,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(h.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	// httpOnly must be false to allow client-side JavaScript
	// to read the cookie and send it in the Authorization header.
	const secure, httpOnly = false, false
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, false)
}

// HandleRefreshData reloads the user's categories and tasks in parallel.
func (h *handlerImpl) HandleRefreshData(c *gin.Context) {
	err := h.initializer.RefreshUserData(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to refresh user data")
		abortStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
