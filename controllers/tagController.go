package controllers

import (
	"teralib-backend/database"
	"teralib-backend/middlewares"
	"teralib-backend/models"

	"github.com/gofiber/fiber/v2"
)

type nameInput struct {
	Name string `json:"name" validate:"required,max=64"`
}

func CreateTag(c *fiber.Ctx) error {
	var in nameInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	tag := models.Tag{Name: in.Name}
	if err := database.DB.Create(&tag).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create tag (name taken?)")
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

func GetTags(c *fiber.Ctx) error {
	var tags []models.Tag
	if err := database.DB.Order("name asc").Find(&tags).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tags": tags})
}

func DeleteTag(c *fiber.Ctx) error {
	res := database.DB.Delete(&models.Tag{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
