package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"masterblog/middleware"
	"masterblog/store"
	"masterblog/utils"
)

// AuthController handles registration, login, and token revocation.
type AuthController struct {
	users  *store.UserStore
	tokens *utils.TokenManager
}

// NewAuthController creates an AuthController.
func NewAuthController(users *store.UserStore, tokens *utils.TokenManager) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Missing username or password")
		return
	}

	if err := a.users.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			utils.Error(ctx, http.StatusConflict, "user already exists")
		case store.IsValidation(err):
			utils.Error(ctx, http.StatusBadRequest, err.Error())
		default:
			utils.Error(ctx, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	utils.Message(ctx, http.StatusCreated, "User registered successfully")
}

// Login verifies credentials and issues a bearer token. The failure message
// never reveals which of the two fields was wrong.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Missing username or password")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, "Missing username or password")
		return
	}

	if !a.users.Verify(req.Username, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := a.tokens.Generate(req.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access_token": token})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	value, exists := ctx.Get(middleware.ContextClaimsKey)
	if !exists {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	claims, ok := value.(*utils.Claims)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	a.tokens.Revoke(claims)
	utils.Message(ctx, http.StatusOK, "logged out")
}

// Me returns the authenticated username.
func (a *AuthController) Me(ctx *gin.Context) {
	username := ctx.GetString(middleware.ContextUsernameKey)
	if username == "" {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"username": username})
}
