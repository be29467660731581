package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const (
	tokenContextKey = "userToken"
	userContextKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
// Role and CenterID only ever come from here, never from request bodies.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
	CenterID     string `json:"center_id,omitempty"`
}

// Scope derives the tenant scope queries run with.
func (c Claims) Scope() core.TenantScope {
	return core.TenantScope{
		Role:     c.Role,
		CenterID: c.CenterID,
		UserID:   c.Subject,
	}
}

func (c Claims) IsAdmin() bool { return c.Role == core.RoleAdmin }

type jwtAuth struct {
	conf   *core.Config
	usrSvc *user.Service
}

func newJWTAuth(conf *core.Config, usrSvc *user.Service) *jwtAuth {
	return &jwtAuth{conf: conf, usrSvc: usrSvc}
}

func (a *jwtAuth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    a.conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	})
}

func (a *jwtAuth) claimsFor(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     usr.Username,
		Role:         usr.Role,
		CenterID:     usr.CenterID.String,
	}
}

// generateToken signs the claims into a JWT token string.
func (a *jwtAuth) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextScope(ctx echo.Context) (core.TenantScope, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.TenantScope{}, err
	}
	return claims.Scope(), nil
}

func (a *jwtAuth) getContextUser(ctx echo.Context, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(userContextKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := a.usrSvc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(userContextKey, usr)
	return usr, nil
}

// refreshToken re-issues a token for a still-active user, capped by the
// original issue time plus the refresh delta.
func (a *jwtAuth) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := a.getContextUser(ctx, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}
	if !usr.IsActive {
		return "", errAuthenticationFailed
	}

	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.claimsFor(usr, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
