package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Andreiysm-dev/ContentGenerator-sub001/internal/services"
)

// ContentHandler exposes the generation pipeline over HTTP.
type ContentHandler struct {
	store    services.ContentPersistence
	captions *services.CaptionService
	reviews  *services.ReviewService
	images   *services.ImageService
}

// NewContentHandler creates the content pipeline handler
func NewContentHandler(store services.ContentPersistence, captions *services.CaptionService, reviews *services.ReviewService, images *services.ImageService) *ContentHandler {
	return &ContentHandler{
		store:    store,
		captions: captions,
		reviews:  reviews,
		images:   images,
	}
}

// Get returns one content item.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid content item ID"})
	}
	item, err := h.store.GetByID(c.Context(), itemID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(item)
}

// Generate runs caption generation for one item.
func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid content item ID"})
	}
	item, err := h.captions.Generate(c.Context(), itemID, requesterID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(item)
}

// GenerateBulk runs caption generation over a batch of items.
func (h *ContentHandler) GenerateBulk(c *fiber.Ctx) error {
	var req struct {
		ContentIDs []string `json:"contentIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	itemIDs := make([]primitive.ObjectID, 0, len(req.ContentIDs))
	for _, raw := range req.ContentIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID: " + raw})
		}
		itemIDs = append(itemIDs, id)
	}

	result, err := h.captions.GenerateBulk(c.Context(), itemIDs, requesterID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(result)
}

// Review runs the reviewer agent for one item.
func (h *ContentHandler) Review(c *fiber.Ctx) error {
	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid content item ID"})
	}
	item, err := h.reviews.Review(c.Context(), itemID, requesterID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(item)
}

// GenerateDmp produces the design mega-prompt for one item.
func (h *ContentHandler) GenerateDmp(c *fiber.Ctx) error {
	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid content item ID"})
	}

	var opts services.DmpOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	item, err := h.images.GenerateDmp(c.Context(), itemID, requesterID(c), opts)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(item)
}

// GenerateImage renders the item's design. A non-empty dmp field in the
// body switches to the custom-prompt path, which skips validation.
func (h *ContentHandler) GenerateImage(c *fiber.Ctx) error {
	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid content item ID"})
	}

	var req struct {
		Provider    string `json:"provider"`
		Model       string `json:"model"`
		AspectRatio string `json:"aspectRatio"`
		Force       bool   `json:"force"`
		Dmp         string `json:"dmp"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	opts := services.ImageOptions{
		Provider:    req.Provider,
		Model:       req.Model,
		AspectRatio: req.AspectRatio,
		Force:       req.Force,
	}

	var item any
	if req.Dmp != "" {
		item, err = h.images.GenerateImageFromCustomDmp(c.Context(), itemID, requesterID(c), req.Dmp, opts)
	} else {
		item, err = h.images.GenerateImage(c.Context(), itemID, requesterID(c), opts)
	}
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(item)
}

func requesterID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok {
		return userID
	}
	return ""
}

// writeServiceError maps service errors onto HTTP responses. Conflicts
// carry their machine-readable code so the frontend can branch on it.
func writeServiceError(c *fiber.Ctx, err error) error {
	var conflictErr *services.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflictErr.Message,
			"code":  conflictErr.Code,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Content item not found"})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this company"})
	default:
		log.Printf("❌ [HTTP] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
