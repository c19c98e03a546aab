package controller

import (
	"ai-coding-assistant-be/internal/pkg/serverutils"
	"ai-coding-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListAllConversations(ctx *fiber.Ctx) error
	ListAllUsers(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	gate    service.IAdminGate
}

func NewAdminController(service service.IAdminService, gate service.IAdminGate) IAdminController {
	return &adminController{
		service: service,
		gate:    gate,
	}
}

// adminMiddleware runs after OptionalJwtMiddleware and asks the shared gate, so
// a role change takes effect without reissuing tokens. A caller without a valid
// token is treated like a non-admin and gets 403.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	isAdmin, err := c.gate.IsAdmin(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return handleServiceError(err)
	}
	if !isAdmin {
		return handleServiceError(service.ErrAccessDenied)
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Use(c.adminMiddleware)

	h.Get("/conversations", c.ListAllConversations)
	h.Get("/users", c.ListAllUsers)
}

func (c *adminController) ListAllConversations(ctx *fiber.Ctx) error {
	res, err := c.service.ListAllConversations(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("All conversations", res))
}

func (c *adminController) ListAllUsers(ctx *fiber.Ctx) error {
	res, err := c.service.ListAllUsers(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("All users", res))
}
