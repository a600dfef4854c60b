package controllers

import (
	"teralib-backend/database"
	"teralib-backend/middlewares"
	"teralib-backend/models"
	"teralib-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProxyInput struct {
	Name       string `json:"name" validate:"required,max=64"`
	Endpoint   string `json:"endpoint" validate:"required,url,max=512"`
	CallMethod string `json:"call_method" validate:"required,oneof=GET POST"`
	Encoding   string `json:"encoding" validate:"required,oneof=json query form"`
	FieldName  string `json:"field_name" validate:"required,max=64"`
	Priority   int    `json:"priority" validate:"gte=0"`
	Enabled    *bool  `json:"enabled"`
}

type ProxyPatch struct {
	Endpoint   *string `json:"endpoint" validate:"omitempty,url,max=512"`
	CallMethod *string `json:"call_method" validate:"omitempty,oneof=GET POST"`
	Encoding   *string `json:"encoding" validate:"omitempty,oneof=json query form"`
	FieldName  *string `json:"field_name" validate:"omitempty,max=64"`
	Priority   *int    `json:"priority" validate:"omitempty,gte=0"`
	Enabled    *bool   `json:"enabled"`
}

func CreateProxy(c *fiber.Ctx) error {
	var in ProxyInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	proxy := models.ProxyDescriptor{
		Name:       in.Name,
		Endpoint:   in.Endpoint,
		CallMethod: in.CallMethod,
		Encoding:   in.Encoding,
		FieldName:  in.FieldName,
		Priority:   in.Priority,
		Enabled:    enabled,
	}
	if err := database.DB.Create(&proxy).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create proxy (name taken?)")
	}
	return c.Status(fiber.StatusCreated).JSON(proxy)
}

// GetProxies lists descriptors in their fallback order.
func GetProxies(c *fiber.Ctx) error {
	var proxies []models.ProxyDescriptor
	if err := database.DB.Order("priority asc, id asc").Find(&proxies).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"proxies": proxies})
}

func GetProxy(c *fiber.Ctx) error {
	var proxy models.ProxyDescriptor
	if err := database.DB.First(&proxy, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(proxy)
}

func UpdateProxy(c *fiber.Ctx) error {
	var patch ProxyPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	var proxy models.ProxyDescriptor
	if err := database.DB.First(&proxy, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	if err := database.DB.Model(&proxy).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(proxy)
}

func DeleteProxy(c *fiber.Ctx) error {
	res := database.DB.Delete(&models.ProxyDescriptor{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
