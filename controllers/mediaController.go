package controllers

import (
	"encoding/json"

	"teralib-backend/database"
	"teralib-backend/middlewares"
	"teralib-backend/models"
	"teralib-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type MediaInput struct {
	SourceURL  string `json:"source_url" validate:"required,url,max=1024"`
	Title      string `json:"title" validate:"max=512"`
	Thumbnail  string `json:"thumbnail" validate:"omitempty,url,max=2048"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
}

type MediaPatch struct {
	Title      *string `json:"title" validate:"omitempty,max=512"`
	Thumbnail  *string `json:"thumbnail" validate:"omitempty,url,max=2048"`
	CategoryID *uint   `json:"category_id"`
}

func CreateMedia(c *fiber.Ctx) error {
	var in MediaInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	src, err := utils.CleanSourceURL(in.SourceURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid source url")
	}

	item := models.MediaItem{
		SourceURL:  src,
		Title:      in.Title,
		Thumbnail:  in.Thumbnail,
		CategoryID: in.CategoryID,
	}
	backfillFromCache(&item)

	if len(in.TagIDs) > 0 {
		if err := database.DB.Find(&item.Tags, in.TagIDs).Error; err != nil {
			return err
		}
	}
	if err := database.DB.Create(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create media item (source url taken?)")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// backfillFromCache fills title/thumbnail/size from an earlier resolution's
// retained payload, so adding an already-resolved link needs no upstream call.
func backfillFromCache(item *models.MediaItem) {
	var rec models.CacheRecord
	if err := database.DB.Where("source_url = ?", item.SourceURL).First(&rec).Error; err != nil {
		return
	}
	if item.SizeBytes == nil {
		item.SizeBytes = rec.SizeBytes
	}
	if len(rec.RawPayload) == 0 {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(rec.RawPayload, &fields); err != nil {
		return
	}
	if item.Title == "" {
		for _, k := range []string{"title", "filename", "file_name", "server_filename", "name"} {
			if s, ok := fields[k].(string); ok && s != "" {
				item.Title = s
				break
			}
		}
	}
	if item.Thumbnail == "" {
		for _, k := range []string{"thumb", "thumbnail", "thumb_url", "image"} {
			if s, ok := fields[k].(string); ok && s != "" {
				item.Thumbnail = s
				break
			}
		}
	}
}

// GetMedia lists/searches the library: ?q= title substring, ?tag= tag name,
// ?category= category id, plus limit/offset paging.
func GetMedia(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	tx := database.DB.Model(&models.MediaItem{}).
		Preload("Tags").Preload("Category")

	if q := c.Query("q"); q != "" {
		tx = tx.Where("title LIKE ?", "%"+q+"%")
	}
	if cat := c.Query("category"); cat != "" {
		tx = tx.Where("category_id = ?", cat)
	}
	if tag := c.Query("tag"); tag != "" {
		tx = tx.Joins("JOIN media_tags ON media_tags.media_item_id = media_items.id").
			Joins("JOIN tags ON tags.id = media_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var items []models.MediaItem
	if err := tx.Limit(limit).Offset(offset).Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"media": items})
}

func GetMediaItem(c *fiber.Ctx) error {
	var item models.MediaItem
	err := database.DB.Preload("Tags").Preload("Category").
		First(&item, "id = ?", c.Params("id")).Error
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func UpdateMedia(c *fiber.Ctx) error {
	var patch MediaPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	var item models.MediaItem
	if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(item)
}

type tagAssignment struct {
	TagIDs []uint `json:"tag_ids" validate:"required"`
}

// SetMediaTags replaces the item's tag set.
func SetMediaTags(c *fiber.Ctx) error {
	var in tagAssignment
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var item models.MediaItem
	if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}

	var tags []models.Tag
	if len(in.TagIDs) > 0 {
		if err := database.DB.Find(&tags, in.TagIDs).Error; err != nil {
			return err
		}
	}
	if err := database.DB.Model(&item).Association("Tags").Replace(tags); err != nil {
		return err
	}
	item.Tags = tags
	return c.JSON(item)
}

func DeleteMedia(c *fiber.Ctx) error {
	res := database.DB.Select("Tags").Delete(&models.MediaItem{Id: c.Params("id")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
