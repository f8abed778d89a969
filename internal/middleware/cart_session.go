package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	CtxSessionIDKey = "cart_session_id" // string

	SessionCookieName = "cart_session"
	SessionHeaderName = "X-Cart-Session"
)

// カートセッションの設定
type SessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool // prodではtrue（https前提）
	Now    func() time.Time
}

// CartSession はカートセッションのトークンを検証する。
// 無い・壊れている・期限切れなら新しいセッションを発行する（認証ではないので401にはしない）。
func CartSession(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			//ヘッダ優先、無ければcookie
			raw := strings.TrimSpace(req.Header.Get(SessionHeaderName))
			if raw == "" {
				if ck, err := req.Cookie(SessionCookieName); err == nil {
					raw = ck.Value
				}
			}

			sessionID, err := parseSessionToken(raw, cfg.Secret)
			if err != nil {
				//新規発行
				sessionID = uuid.NewString()
				token, expiresAt, err := IssueSessionToken(sessionID, cfg.Secret, cfg.TTL, cfg.Now())
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}

				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					Expires:  expiresAt,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				c.Response().Header().Set(SessionHeaderName, token)
			}

			c.Set(CtxSessionIDKey, sessionID)

			// ログにセッションIDを付ける
			ctx := req.Context()
			log := zerolog.Ctx(ctx).With().Str("session_id", sessionID).Logger()
			c.SetRequest(req.WithContext(log.WithContext(ctx)))

			return next(c)
		}
	}
}

// IssueSessionToken はセッションIDを入れたHS256トークンを作る
func IssueSessionToken(sessionID string, secret []byte, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func parseSessionToken(raw string, secret []byte) (string, error) {
	if raw == "" {
		return "", errors.New("empty token")
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sid, ok := claims["sid"].(string)
	if !ok {
		return "", errors.New("invalid sid")
	}
	if _, err := uuid.Parse(sid); err != nil {
		return "", errors.New("invalid sid")
	}
	return sid, nil
}

// SessionID はCartSessionが入れたセッションIDを返す
func SessionID(c echo.Context) (string, bool) {
	sid, ok := c.Get(CtxSessionIDKey).(string)
	return sid, ok && sid != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
