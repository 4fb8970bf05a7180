package controller

import (
	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/pkg/serverutils"
	"datahub-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOrganizationController interface {
	RegisterRoutes(r fiber.Router)
}

type organizationController struct {
	service service.IOrganizationService
	auth    fiber.Handler
}

func NewOrganizationController(service service.IOrganizationService, auth fiber.Handler) IOrganizationController {
	return &organizationController{service: service, auth: auth}
}

func (c *organizationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/organization/v1")
	h.Use(c.auth)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post("", serverutils.RequireRole(serverutils.RoleAdmin), c.Create)
	h.Put(":id", serverutils.RequireRole(serverutils.RoleAdmin), c.Edit)

	studies := r.Group("/study/v1")
	studies.Use(c.auth)
	studies.Get("", c.ListStudies)
}

func (c *organizationController) List(ctx *fiber.Ctx) error {
	var req dto.ListOrganizationsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListOrganizations(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list organizations", res))
}

func (c *organizationController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid organization id")
	}

	res, err := c.service.GetOrganization(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get organization", res))
}

func (c *organizationController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateOrganizationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateOrganization(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create organization", res))
}

func (c *organizationController) Edit(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid organization id")
	}

	var req dto.EditOrganizationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.EditOrganization(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success edit organization", res))
}

func (c *organizationController) ListStudies(ctx *fiber.Ctx) error {
	var req dto.ListApprovedStudiesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListApprovedStudies(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list approved studies", res))
}
