package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateResidentInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	UnitID    *uint  `json:"unit_id"`
	Role      string `json:"role"` // morador (default) or porteiro
}

// CreateResident lets the síndico add a morador or porteiro account to the
// condo.
func CreateResident(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateResidentInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" || input.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and first_name are required",
		})
	}
	if len(input.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}

	role := input.Role
	if role == "" {
		role = model.RoleMorador
	}
	if role != model.RoleMorador && role != model.RolePorteiro {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "role must be morador or porteiro",
		})
	}

	if input.UnitID != nil {
		var unit model.Unit
		if err := database.DB.Where("id = ? AND condo_id = ?", *input.UnitID, claims.CondoID).
			First(&unit).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Unit not found",
			})
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var existing model.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already in use",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	condoID := claims.CondoID
	user := model.User{
		CondoID:   &condoID,
		UnitID:    input.UnitID,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user.GetPublicProfile())
}

func ListResidents(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var users []model.User
	err := database.DB.Where("condo_id = ?", claims.CondoID).
		Order("first_name asc").
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch residents",
		})
	}

	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, users[i].GetPublicProfile())
	}

	return c.JSON(out)
}
