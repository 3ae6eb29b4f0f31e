package handler

import (
	"errors"
	"log"

	"notevault/dto"
	"notevault/services"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
	ua "github.com/mileusna/useragent"
)

type TokenHandler struct {
	Users  *usecase.UserService
	Tokens *services.TokenService
}

func NewTokenHandler(users *usecase.UserService, tokens *services.TokenService) *TokenHandler {
	return &TokenHandler{Users: users, Tokens: tokens}
}

// Token exchanges form credentials for a bearer token. Unknown user and
// wrong password answer the same 401.
func (h *TokenHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "invalid request")
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrAuthFailed) {
			logLoginAttempt(c, req.Username, false)
			utils.TrackAuthAttempt("failure", "login")
			utils.Unauthorized(c, "incorrect username or password")
			return
		}
		utils.InternalError(c, "failed to authenticate")
		return
	}

	token, err := h.Tokens.GenerateToken(user.Username)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	logLoginAttempt(c, user.Username, true)
	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// logLoginAttempt writes an audit line with the parsed client agent.
func logLoginAttempt(c *gin.Context, username string, success bool) {
	agent := ua.Parse(c.Request.UserAgent())
	outcome := "failed"
	if success {
		outcome = "succeeded"
	}
	log.Printf("login %s: user=%s ip=%s browser=%s os=%s device=%s",
		outcome, username, c.ClientIP(), agent.Name, agent.OS, agent.Device)
}
