package middleware

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/odyssey-app/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// Authenticator turns a bearer token into user claims. The variant is chosen
// once at startup: JWT verification against the signing secret, or a static
// local token for development without an auth backend.
type Authenticator interface {
	Authenticate(token string) (*utils.UserClaims, error)
}

// JWTAuthenticator validates signed access tokens.
type JWTAuthenticator struct {
	Secret []byte
}

func (a *JWTAuthenticator) Authenticate(token string) (*utils.UserClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	username, _ := claims["username"].(string)

	return &utils.UserClaims{UserID: uint(rawID), Username: username}, nil
}

// LocalAuthenticator accepts one fixed token and maps it to one fixed user.
// Development convenience only; selected via LOCAL_AUTH_TOKEN.
type LocalAuthenticator struct {
	Token  string
	UserID uint
}

func (a *LocalAuthenticator) Authenticate(token string) (*utils.UserClaims, error) {
	if token != a.Token {
		return nil, errors.New("invalid token")
	}
	return &utils.UserClaims{UserID: a.UserID, Username: "local-dev"}, nil
}

// NewAuthenticatorFromEnv selects the authenticator once at startup.
func NewAuthenticatorFromEnv() Authenticator {
	if localToken := os.Getenv("LOCAL_AUTH_TOKEN"); localToken != "" {
		userID := uint(1)
		if raw := os.Getenv("LOCAL_AUTH_USER_ID"); raw != "" {
			if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
				userID = uint(parsed)
			}
		}
		return &LocalAuthenticator{Token: localToken, UserID: userID}
	}
	return &JWTAuthenticator{Secret: []byte(os.Getenv("JWT_SECRET"))}
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(bearerToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), claims)

		c.Next()
	}
}
