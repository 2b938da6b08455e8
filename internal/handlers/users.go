package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// UserDirectory is the account store behind the user routes.
type UserDirectory interface {
	Accounts
	// ListByRole lists users with role; a non-empty query narrows it to
	// matching names, emails and phone numbers.
	ListByRole(ctx context.Context, role models.Role, query string) ([]models.User, error)
	Delete(ctx context.Context, userID string) error
}

// PatientRecords removes everything a patient owns before the account goes.
type PatientRecords interface {
	DeleteForPatient(ctx context.Context, patientID string) error
}

// UserHandler handles user-related requests.
type UserHandler struct {
	users   UserDirectory
	cascade []PatientRecords
}

// NewUserHandler creates a new UserHandler. Deleting a patient first runs
// every cascade in order.
func NewUserHandler(users UserDirectory, cascade ...PatientRecords) *UserHandler {
	return &UserHandler{users: users, cascade: cascade}
}

// CreateUserRequest represents the request body for creating a user by an admin.
type CreateUserRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=patient doctor admin"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateUser handles creating a new user of any role (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user := models.User{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        models.Role(req.Role),
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password")
		return
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUsers lists users, optionally filtered by ?role= (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	roles := []models.Role{models.RoleAdmin, models.RoleDoctor, models.RolePatient}
	if r := c.Query("role"); r != "" {
		roles = []models.Role{models.Role(strings.ToLower(r))}
	}

	var all []models.UserSanitized
	for _, role := range roles {
		users, err := h.users.ListByRole(c.Request.Context(), role, "")
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		all = append(all, sanitize(users)...)
	}
	utils.Success(c, "Users fetched successfully", all)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// DeleteUser removes an account. A patient's appointments and
// prescriptions go first so their stock is returned.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := c.Param("id")
	if actor.ID == userID {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if user.Role == models.RolePatient {
		for _, records := range h.cascade {
			if err := records.DeleteForPatient(ctx, userID); err != nil {
				utils.RespondError(c, err)
				return
			}
		}
	}
	if err := h.users.Delete(ctx, userID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

// GetDoctors lists doctors for the booking form.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.users.ListByRole(c.Request.Context(), models.RoleDoctor, "")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", sanitize(doctors))
}

// GetPatients lists patients (doctor, admin). ?q= searches by name, email
// or phone.
func (h *UserHandler) GetPatients(c *gin.Context) {
	patients, err := h.users.ListByRole(c.Request.Context(), models.RolePatient, c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patients fetched successfully", sanitize(patients))
}

func sanitize(users []models.User) []models.UserSanitized {
	out := make([]models.UserSanitized, len(users))
	for i := range users {
		out[i] = users[i].Sanitize()
	}
	return out
}
