package handler

import (
	"errors"

	"notevault/dto"
	"notevault/repository"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Register creates an account from a username/password pair.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request")
		return
	}

	user, err := h.Users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			utils.TrackAuthAttempt("failure", "register")
			utils.Conflict(c, "username already exists")
			return
		}
		utils.InternalError(c, "failed to register user")
		return
	}

	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, dto.RegisterResponse{
		Username: user.Username,
		Status:   "created new user!",
	})
}
