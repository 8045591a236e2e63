package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/session"
)

// RegisterAuthRoutes registers the authentication endpoints with the
// RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup) {
	r.GET("/me", getMe)
	r.POST("/login", postLogin)
	r.POST("/logout", postLogout)
	r.POST("/refresh", postRefresh)
	r.POST("/register", postRegister)
	r.POST("/activate", postActivate)
	r.POST("/password-reset", postPasswordReset)
	r.POST("/password-reset/confirm", postPasswordResetConfirm)
	r.POST("/password-set", postPasswordSet)
	r.PUT("/entity", putActiveEntity)
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	User          any    `json:"user,omitempty"`
	ActiveEntity  string `json:"active_entity,omitempty"`
}

func getMe(c *gin.Context) {
	auth := fromContext(c).Auth

	resp := meResponse{
		Authenticated: auth.IsAuthenticated(),
		ActiveEntity:  auth.ActiveEntity(),
	}
	if user, ok := auth.User(); ok {
		resp.User = user
	}

	c.JSON(http.StatusOK, resp)
}

func postLogin(c *gin.Context) {
	var credentials session.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "username and password are required"})
		return
	}

	if err := fromContext(c).Auth.Login(c.Request.Context(), credentials); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	getMe(c)
}

func postLogout(c *gin.Context) {
	fromContext(c).Auth.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func postRefresh(c *gin.Context) {
	if err := fromContext(c).Auth.Refresh(c.Request.Context()); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func postRegister(c *gin.Context) {
	var registration session.Registration
	if err := c.ShouldBindJSON(&registration); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the registration payload is invalid"})
		return
	}

	user, err := fromContext(c).Auth.Register(c.Request.Context(), registration)
	if err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusCreated, user)
}

func postActivate(c *gin.Context) {
	var body struct {
		UID   string `json:"uid"`
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "uid and token are required"})
		return
	}

	if err := fromContext(c).Auth.ActivateAccount(c.Request.Context(), body.UID, body.Token); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func postPasswordReset(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "an email address is required"})
		return
	}

	if err := fromContext(c).Auth.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func postPasswordResetConfirm(c *gin.Context) {
	var body struct {
		UID         string `json:"uid"`
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "uid, token and new_password are required"})
		return
	}

	if err := fromContext(c).Auth.ResetPasswordConfirm(c.Request.Context(), body.UID, body.Token, body.NewPassword); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func postPasswordSet(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "current_password and new_password are required"})
		return
	}

	if err := fromContext(c).Auth.SetPassword(c.Request.Context(), body.CurrentPassword, body.NewPassword); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func putActiveEntity(c *gin.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "an entity id is required"})
		return
	}

	if err := fromContext(c).Auth.SetActiveEntity(body.ID); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.Status(http.StatusNoContent)
}
