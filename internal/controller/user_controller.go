package controller

import (
	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/pkg/serverutils"
	"ai-coding-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetCurrentUser(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Get("/me", serverutils.OptionalJwtMiddleware, c.GetCurrentUser)
	h.Patch("/me", serverutils.JwtMiddleware, c.UpdateProfile)
	h.Delete("/me", serverutils.JwtMiddleware, c.DeleteAccount)
}

// GetCurrentUser answers 200 with null data for anonymous callers.
func (c *userController) GetCurrentUser(ctx *fiber.Ctx) error {
	res, err := c.service.GetCurrentUser(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Current user", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), serverutils.CallerID(ctx), &req)
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	if err := c.service.DeleteAccount(ctx.UserContext(), serverutils.CallerID(ctx)); err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted", nil))
}
