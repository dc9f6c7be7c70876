package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/server/middleware"
	"github.com/jonathan/cv-perfecto/internal/types"
)

// AuthHandler serves /api/users.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register creates an account and returns a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user, "User registered successfully")
}

// Login returns a token for valid credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user, "Login successful")
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, types.Failure("Unauthorized"))
		return
	}
	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.Success(user, ""))
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonResponse(w, http.StatusBadRequest, types.Failure("Invalid request body"))
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		jsonResponse(w, http.StatusBadRequest, types.Failure("Validation failed", extractValidationErrors(err)...))
		return false
	}
	return true
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *types.User, message string) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("failed to generate token")
		jsonResponse(w, http.StatusInternalServerError, types.Failure("Failed to generate token"))
		return
	}
	jsonResponse(w, status, types.Success(types.LoginResponse{User: user, Token: token}, message))
}

// extractValidationErrors converts validator errors to field errors.
func extractValidationErrors(err error) []types.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []types.FieldError{{Field: "body", Message: "invalid request"}}
	}
	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

const jobDescriptionLength = "Job description must be between 50 and 10,000 characters"

// fieldMessages replaces the generic message for a struct field and tag.
var fieldMessages = map[string]map[string]string{
	"JobDescription": {
		"required": "Job description is required",
		"min":      jobDescriptionLength,
		"max":      jobDescriptionLength,
	},
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.StructField()][fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
