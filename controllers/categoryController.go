package controllers

import (
	"teralib-backend/database"
	"teralib-backend/middlewares"
	"teralib-backend/models"

	"github.com/gofiber/fiber/v2"
)

func CreateCategory(c *fiber.Ctx) error {
	var in nameInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	category := models.Category{Name: in.Name}
	if err := database.DB.Create(&category).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create category (name taken?)")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func DeleteCategory(c *fiber.Ctx) error {
	res := database.DB.Delete(&models.Category{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
