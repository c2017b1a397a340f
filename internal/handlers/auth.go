package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userStore    stores.UserStore
	firebaseAuth *auth.Client // nil outside the firestore backend
	jwtSecret    string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userStore stores.UserStore, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userStore:    userStore,
		firebaseAuth: firebaseAuthClient,
		jwtSecret:    jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/register", h.Register)
	g.GET("/username-available", h.UsernameAvailable)
}

// Signup handles local user registration with email and password. Username
// and email uniqueness and the password policy are checked before any write.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	available, err := h.userStore.UsernameAvailable(ctx, req.Username)
	if err != nil {
		return storeError(err)
	}
	if !available {
		return storeError(stores.ErrUsernameTaken)
	}
	if _, err := h.userStore.GetUserByEmail(ctx, req.Email); err == nil {
		return storeError(stores.ErrEmailTaken)
	} else if !errors.Is(err, stores.ErrNotFound) {
		return storeError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		UID:          uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Bio:          req.Bio,
		PasswordHash: string(hashedPassword),
	}
	if err := h.userStore.CreateUser(ctx, user); err != nil {
		return storeError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userStore.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Register creates the profile document for an account already authenticated
// with Firebase; the uid comes from the verified ID token, not the payload.
func (h *AuthHandler) Register(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase authentication is not configured")
	}

	idToken, err := bearerToken(c)
	if err != nil {
		return err
	}
	token, err := h.firebaseAuth.VerifyIDToken(context.Background(), idToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userStore.GetUser(ctx, token.UID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User already registered")
	} else if !errors.Is(err, stores.ErrNotFound) {
		return storeError(err)
	}

	available, err := h.userStore.UsernameAvailable(ctx, req.Username)
	if err != nil {
		return storeError(err)
	}
	if !available {
		return storeError(stores.ErrUsernameTaken)
	}

	user := &models.User{
		UID:      token.UID,
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	}
	if err := h.userStore.CreateUser(ctx, user); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// UsernameAvailable checks whether a username is free. The match is exact and
// case-sensitive.
func (h *AuthHandler) UsernameAvailable(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username query parameter is required")
	}
	available, err := h.userStore.UsernameAvailable(c.Request().Context(), username)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"username": username, "available": available})
}

func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UID:   user.UID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}
