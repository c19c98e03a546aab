package controller

import (
	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/pkg/serverutils"
	"ai-coding-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
	Reply(ctx *fiber.Ctx) error
}

type conversationController struct {
	service          service.IConversationService
	assistantService service.IAssistantService
}

func NewConversationController(service service.IConversationService, assistantService service.IAssistantService) IConversationController {
	return &conversationController{
		service:          service,
		assistantService: assistantService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversations")
	h.Get("/", serverutils.OptionalJwtMiddleware, c.List)
	h.Post("/", serverutils.JwtMiddleware, c.Create)
	h.Get("/:id/messages", serverutils.JwtMiddleware, c.ListMessages)
	h.Post("/:id/messages", serverutils.JwtMiddleware, c.AppendMessage)
	h.Post("/:id/reply", serverutils.JwtMiddleware, c.Reply)
}

func conversationID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, badRequest("Invalid conversation id")
	}
	return id, nil
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateConversationRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return badRequest("Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	id, err := c.service.CreateConversation(ctx.UserContext(), serverutils.CallerID(ctx), req.Title)
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Conversation created", dto.CreateConversationResponse{Id: id}))
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListConversations(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations", res))
}

func (c *conversationController) ListMessages(ctx *fiber.Ctx) error {
	id, err := conversationID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMessages(ctx.UserContext(), serverutils.CallerID(ctx), id)
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *conversationController) AppendMessage(ctx *fiber.Ctx) error {
	id, err := conversationID(ctx)
	if err != nil {
		return err
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	messageId, err := c.service.AppendMessage(ctx.UserContext(), serverutils.CallerID(ctx), id, req.Content, entity.MessageRole(req.Role))
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message appended", dto.AppendMessageResponse{Id: messageId}))
}

func (c *conversationController) Reply(ctx *fiber.Ctx) error {
	id, err := conversationID(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateReplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	res, err := c.assistantService.GenerateAssistantReply(ctx.UserContext(), serverutils.CallerID(ctx), id, req.UserMessage)
	if err != nil {
		return handleServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Assistant reply", dto.GenerateReplyResponse{
		Content:   res.Content,
		Outcome:   string(res.Outcome),
		MessageId: res.MessageId,
	}))
}
