package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/domain"
)

// UserValueSubject holds the authenticated token subject on the request.
const UserValueSubject = "auth_subject"

// JWTAuth requires an HMAC-signed bearer token. An empty secret disables the check.
func JWTAuth(secret, issuer string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if secret == "" {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				abort(ctx, domain.ErrUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				abort(ctx, domain.ErrUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || (issuer != "" && !claims.VerifyIssuer(issuer, true)) {
				logger.Warn("jwt issuer rejected")
				abort(ctx, domain.ErrUnauthorized)
				return
			}

			if sub, ok := claims["sub"].(string); ok {
				ctx.SetUserValue(UserValueSubject, sub)
			} else if userID, ok := claims["user_id"].(string); ok {
				ctx.SetUserValue(UserValueSubject, userID)
			}

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
