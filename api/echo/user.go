package echoapi

import (
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
	"github.com/trezcool/darasa/core/user"
)

var errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")

type authApi struct {
	auth      *jwtAuth
	usrSvc    *user.Service
	centerSvc *center.Service
	validate  *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *jwtAuth, deps ServerDeps) {
	api := authApi{
		auth:      auth,
		usrSvc:    deps.UserSvc,
		centerSvc: deps.CenterSvc,
		validate:  deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & `/password-reset-confirm`
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.POST("/change-password", api.changePassword)
	tg.POST("/token-refresh", api.refreshToken)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.usrSvc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := api.auth.generateToken(api.auth.claimsFor(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	var centerName string
	if usr.CenterID.Valid {
		if c, err := api.centerSvc.GetByID(ctx.Request().Context(), core.AdminScope(), usr.CenterID.String); err == nil {
			centerName = c.Name
		}
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User: LoginUser{
			ID:         usr.ID,
			Username:   usr.Username,
			Name:       usr.Name,
			Role:       usr.Role,
			CenterID:   usr.CenterID.String,
			CenterName: centerName,
		},
	})
}

// changePassword rotates the authenticated user's own credential; the
// user id comes from the verified token, never the body.
func (api *authApi) changePassword(ctx echo.Context) error {
	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.usrSvc.ChangePassword(ctx.Request().Context(), usr, data); err != nil {
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			return echo.NewHTTPError(http.StatusUnauthorized, "current password incorrect")
		}
		return errors.Wrap(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Detail: "Password has been changed."})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.usrSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Detail: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.usrSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Detail: "Password has been reset with the new password."})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Success: true, Token: token})
}

type userApi struct {
	auth     *jwtAuth
	svc      *user.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		auth:     newJWTAuth(deps.Conf, deps.UserSvc),
		svc:      deps.UserSvc,
		validate: deps.Validate,
	}

	ug := g.Group("/users", jwt)
	ug.POST("/register", api.create, roleMiddleware(core.RoleAdmin))
	ug.GET("", api.query, roleMiddleware(core.RoleAdmin))
	ug.DELETE("", api.destroyMultiple, roleMiddleware(core.RoleAdmin))
	ug.GET("/roles", api.queryRoles, roleMiddleware(core.RoleAdmin))

	// detail endpoints
	dg := ug.Group("/:id", ctxUserOrAdminMiddleware(api.auth, api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, roleMiddleware(core.RoleAdmin))
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() {
		// `IsActive`, `Role`, `CenterID`, `Username` and `Email` can only be changed by admin
		if data.IsActive != nil || data.Role != "" || data.CenterID != nil || data.Username != "" || data.Email != "" {
			return errHttpForbidden
		}
	}

	if err := data.Validate(usr, api.validate, api.svc); err != nil {
		return err
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	// ctxUser cannot delete themselves
	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.ID == ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// ctxUser cannot delete themselves
	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxUsr.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxUsr.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

// ctxUserOrAdminMiddleware lets users through to their own detail
// endpoints; admins get through to anyone's.
func ctxUserOrAdminMiddleware(auth *jwtAuth, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := auth.getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			if ctx.Param("id") == ctxUsr.ID || ctxUsr.IsAdmin() {
				if usr, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", usr)
					return next(ctx)
				} else if errors.Cause(err) != user.ErrNotFound {
					return errors.Wrap(err, "finding user by ID")
				}
			}
			return errHttpNotFound
		}
	}
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginUser struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		Name       string `json:"name"`
		Role       string `json:"role"`
		CenterID   string `json:"center_id,omitempty"`
		CenterName string `json:"center_name,omitempty"`
	}

	LoginResponse struct {
		Success bool      `json:"success"`
		Token   string    `json:"token"`
		User    LoginUser `json:"user"`
	}

	TokenResponse struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success bool   `json:"success"`
		Detail  string `json:"detail"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
