package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

// SignupTrialDays is the trial window granted to self-service signups.
const SignupTrialDays = 14

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CondoName string `json:"condo_name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates the condo and its first síndico as one unit: a failed
// user insert leaves no half-provisioned condo behind.
func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Email == "" || input.Password == "" || input.CondoName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email, password and condo_name are required",
		})
	}

	var existingUser model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, SignupTrialDays)

	condo := model.Condo{
		Name:           input.CondoName,
		Slug:           fmt.Sprintf("%s-%s", slug.Make(input.CondoName), uuid.New().String()[:8]),
		Status:         model.CondoStatusActive,
		TrialStartedAt: &now,
		TrialEndsAt:    &trialEnd,
	}

	user := model.User{
		Email:     input.Email,
		Password:  string(hashedPassword),
		Role:      model.RoleSindico,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		// new signups start on the entry plan
		var plan model.Plan
		if err := tx.Where("name = ?", "Basico").First(&plan).Error; err == nil {
			condo.PlanID = &plan.ID
		}

		if err := tx.Create(&condo).Error; err != nil {
			return err
		}

		user.CondoID = &condo.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create account",
		})
	}

	token, err := jwt.GenerateToken(user.ID, condo.ID, user.Role, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"user":    user.GetPublicProfile(),
		"condo": fiber.Map{
			"id":            condo.ID,
			"name":          condo.Name,
			"slug":          condo.Slug,
			"trial_ends_at": condo.TrialEndsAt,
		},
	})
}

func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	var condoID uint
	if user.CondoID != nil {
		condoID = *user.CondoID
	}

	token, err := jwt.GenerateToken(user.ID, condoID, user.Role, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.GetPublicProfile(),
	})
}

// GetMe returns the logged-in user with condo context.
func GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().Preload("Condo").First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	resp := fiber.Map{
		"user": user.GetPublicProfile(),
	}
	if user.Condo != nil {
		resp["condo"] = fiber.Map{
			"id":     user.Condo.ID,
			"name":   user.Condo.Name,
			"slug":   user.Condo.Slug,
			"status": user.Condo.Status,
		}
	}

	return c.JSON(resp)
}
