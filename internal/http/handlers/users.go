package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/http/middleware"
	"storefront/internal/repositories"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var userRepo = repositories.UserRepository{}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/user/
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		RespondDomainError(c, domain.ValidationError{Msg: "username and password are required"})
		return
	}

	exists, err := userRepo.ExistsUsername(req.Username, 0)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if exists {
		RespondDomainError(c, domain.ConflictError{Msg: "a user with that username is already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	if _, err := userRepo.Create(req.Username, strings.TrimSpace(req.Email), string(hash)); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "User created successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/user/login
//
// Unknown username and wrong password answer identically so the endpoint
// does not reveal which usernames exist.
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, hash, err := userRepo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.UnauthenticatedError{Msg: "invalid username or password"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		RespondDomainError(c, domain.UnauthenticatedError{Msg: "invalid username or password"})
		return
	}

	token, err := auth.Sign([]byte(config.Loaded.JWTSecret), user.ID, config.Loaded.JWTTTL)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusOK, token)
}

// GET /api/user/
func GetUsers(c *gin.Context) {
	page, err := userRepo.Paginate(pageParams(c))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/user/auth
func GetAuthenticatedUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	c.JSON(http.StatusOK, principal)
}

// GET /api/user/:userId
func GetUserByID(c *gin.Context) {
	id, ok := idParam(c, "userId")
	if !ok {
		return
	}

	user, err := userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

// PUT /api/user/:userId
func UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	exists, err := userRepo.ExistsUsername(req.Username, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	if exists {
		RespondDomainError(c, domain.ConflictError{Msg: "a user with that username is already registered"})
		return
	}

	if _, err := userRepo.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if err := userRepo.Update(id, req.Username, strings.TrimSpace(req.Email), req.IsActive); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "User updated successfully")
}

// DELETE /api/user/:userId
//
// Users are never hard-deleted; the active flag is toggled instead.
func ToggleUserActive(c *gin.Context) {
	id, ok := idParam(c, "userId")
	if !ok {
		return
	}

	user, err := userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	updated, err := userRepo.SetActive(id, !user.IsActive)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user status updated",
		"user":    updated,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
}

// PUT /api/user/changePassword
func ChangePassword(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Password == "" {
		RespondDomainError(c, domain.ValidationError{Field: "password", Msg: "new password is required"})
		return
	}

	hash, err := userRepo.GetPasswordHash(principal.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.OldPassword)); err != nil {
		RespondDomainError(c, domain.ConflictError{Msg: "current password is incorrect"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	if err := userRepo.UpdatePassword(principal.ID, string(newHash)); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "Password updated successfully")
}
