package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propmarket/backend/internal/metrics"
	"github.com/propmarket/backend/internal/middleware"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
)

const propertyNotFound = "Property not found"

type PropertiesHandler struct {
	Properties *services.PropertyService
	Interests  *services.InterestService
	Metrics    *metrics.HTTPMetrics
}

func NewPropertiesHandler(properties *services.PropertyService, interests *services.InterestService, m *metrics.HTTPMetrics) *PropertiesHandler {
	return &PropertiesHandler{Properties: properties, Interests: interests, Metrics: m}
}

func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	form, uploads, err := readListingForm(c)
	if err != nil {
		return respondServiceError(c, "property_create_failed", err, "")
	}

	property, err := h.Properties.Create(c.UserContext(), user.ID, form, uploads)
	if err != nil {
		return respondServiceError(c, "property_create_failed", err, "")
	}
	return utils.Success(c, fiber.StatusCreated, property)
}

// list answers with a paginated envelope only when page or limit was asked
// for.
func (h *PropertiesHandler) list(c *fiber.Ctx, action string, filter services.ListFilter) error {
	var page *utils.PaginationParams
	if utils.HasPagination(c) {
		p := utils.ParsePagination(c)
		page = &p
		filter.Page = page
	}

	properties, total, err := h.Properties.List(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, action, err, "")
	}
	if page != nil {
		return utils.Paginated(c, properties, page.Page, page.Limit, total)
	}
	return utils.Success(c, fiber.StatusOK, properties)
}

// All is the public catalogue: approved listings only.
func (h *PropertiesHandler) All(c *fiber.Ctx) error {
	approved := models.StatusApproved
	return h.list(c, "property_list_failed", services.ListFilter{
		Status:     &approved,
		Extensions: true,
	})
}

func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	property, err := h.Properties.Get(c.UserContext(), id, services.GetOptions{
		Public: true,
		Viewer: middleware.GetCurrentUser(c),
	})
	if err != nil {
		return respondServiceError(c, "property_get_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusOK, property)
}

func (h *PropertiesHandler) Mine(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	return h.list(c, "user_properties_failed", services.ListFilter{
		OwnerID:    &user.ID,
		Extensions: true,
		Interests:  true,
	})
}

func (h *PropertiesHandler) ListInterests(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	interests, err := h.Interests.ListForProperty(c.UserContext(), id, user.ID)
	if err != nil {
		return respondServiceError(c, "interest_list_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusOK, interests)
}

func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	form, uploads, err := readListingForm(c)
	if err != nil {
		return respondServiceError(c, "property_update_failed", err, "")
	}

	property, err := h.Properties.Update(c.UserContext(), id, user.ID, form, uploads)
	if err != nil {
		return respondServiceError(c, "property_update_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusOK, property)
}

func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	if err := h.Properties.Delete(c.UserContext(), id, user.ID); err != nil {
		return respondServiceError(c, "property_delete_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Property deleted successfully"})
}

func (h *PropertiesHandler) CreateInterest(c *fiber.Ctx) error {
	var req services.InterestInput
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	interest, err := h.Interests.Create(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, "interest_create_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusCreated, interest)
}

func (h *PropertiesHandler) AdminList(c *fiber.Ctx) error {
	filter := services.ListFilter{Extensions: true, Owner: true}
	if raw := c.Query("status"); raw != "" {
		status := models.PropertyStatus(raw)
		if !status.Valid() {
			return utils.FieldError(c, "status", "Invalid status value")
		}
		filter.Status = &status
	}
	return h.list(c, "admin_property_list_failed", filter)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *PropertiesHandler) UpdateStatus(c *fiber.Ctx) error {
	admin := middleware.GetCurrentUser(c)
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	property, err := h.Properties.UpdateStatus(c.UserContext(), id, req.Status, admin.ID)
	if err != nil {
		return respondServiceError(c, "property_status_failed", err, propertyNotFound)
	}
	if h.Metrics != nil {
		h.Metrics.ObserveStatusChange(string(property.Status))
	}

	logger.InfoWithUser(admin.ID.String(), "admin_status_update", map[string]interface{}{
		"property_id": property.ID.String(),
		"status":      string(property.Status),
	})
	return utils.Success(c, fiber.StatusOK, property)
}

func (h *PropertiesHandler) History(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, propertyNotFound)
	}

	events, err := h.Properties.History(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, "property_history_failed", err, propertyNotFound)
	}
	return utils.Success(c, fiber.StatusOK, events)
}
