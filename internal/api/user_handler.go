package api

import (
	"coursell/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the /api/user routes.
type UserHandler struct {
	authService     service.AuthService
	purchaseService service.PurchaseService
	log             *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService service.AuthService, purchaseService service.PurchaseService, log *zap.Logger) *UserHandler {
	return &UserHandler{authService: authService, purchaseService: purchaseService, log: log}
}

// --- Request/Response Structs ---

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,min=1"`
	LastName  string `json:"lastName" binding:"required,min=1"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateProfileRequest fields are optional; omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName" binding:"omitempty,min=1"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	UserID  string       `json:"userId"`
	User    UserResponse `json:"user"`
}

func (r SignupRequest) input() service.SignupInput {
	return service.SignupInput{Email: r.Email, Password: r.Password, FirstName: r.FirstName, LastName: r.LastName}
}

// --- Handler Methods ---

// Signup godoc
// @Summary Create a user account
// @Tags User
// @Accept json
// @Produce json
// @Param user body SignupRequest true "Signup details"
// @Success 201 {object} gin.H "message, userId"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Router /user/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User signup successful", "userId": user.ID.Hex()})
}

// Register godoc
// @Summary Create a user account and sign in
// @Tags User
// @Accept json
// @Produce json
// @Param user body SignupRequest true "Signup details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Router /user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Register(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		UserID:  user.ID.Hex(),
		User:    MapUserToResponse(user),
	})
}

// Signin godoc
// @Summary Sign in a user
// @Tags User
// @Accept json
// @Produce json
// @Param credentials body SigninRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /user/signin [post]
func (h *UserHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		Message: "User signin successful",
		Token:   token,
		UserID:  user.ID.Hex(),
		User:    MapUserToResponse(user),
	})
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := principalID(c)
	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Update the supplied profile fields
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} gin.H "message, user"
// @Failure 409 {object} gin.H "Email already taken"
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := principalID(c)

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": MapUserToResponse(user)})
}

// GetPurchasedCourses godoc
// @Summary Courses the user has bought
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "message, courses"
// @Router /user/purchases [get]
func (h *UserHandler) GetPurchasedCourses(c *gin.Context) {
	userID, _ := principalID(c)
	courses, err := h.purchaseService.PurchasedCourses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchased courses", "courses": mapCourses(courses, false)})
}
