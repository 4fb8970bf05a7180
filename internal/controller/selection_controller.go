package controller

import (
	"bytes"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/pkg/serverutils"
	"datahub-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISelectionController interface {
	RegisterRoutes(r fiber.Router)
}

type selectionController struct {
	selections service.ISelectionService
	bulk       service.IBulkService
	auth       fiber.Handler
}

func NewSelectionController(selections service.ISelectionService, bulk service.IBulkService, auth fiber.Handler) ISelectionController {
	return &selectionController{selections: selections, bulk: bulk, auth: auth}
}

func (c *selectionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/submission/v1/:submissionId/nodes/:nodeType/selection")
	h.Use(c.auth)
	h.Get("", c.Get)
	h.Delete("", c.Reset)
	h.Post("/toggle-row", c.ToggleRow)
	h.Post("/toggle-all", c.ToggleAll)
	h.Post("/delete", c.DeleteSelected)
	h.Get("/export", c.ExportSelected)
}

func (c *selectionController) view(ctx *fiber.Ctx) (dto.SelectionView, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return dto.SelectionView{}, err
	}
	submissionId, err := submissionID(ctx)
	if err != nil {
		return dto.SelectionView{}, err
	}
	nodeType := ctx.Params("nodeType")
	if nodeType == "" {
		return dto.SelectionView{}, fiber.NewError(fiber.StatusBadRequest, "Missing node type")
	}
	return dto.SelectionView{UserId: userId, SubmissionId: submissionId, NodeType: nodeType}, nil
}

func (c *selectionController) Get(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}
	res, err := c.selections.Get(ctx.UserContext(), view)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get selection", res))
}

func (c *selectionController) Reset(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}
	if err := c.selections.Reset(ctx.UserContext(), view); err != nil {
		return err
	}
	res, err := c.selections.Get(ctx.UserContext(), view)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset selection", res))
}

func (c *selectionController) ToggleRow(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}

	var req dto.ToggleRowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.selections.ToggleRow(ctx.UserContext(), view, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle row", res))
}

func (c *selectionController) ToggleAll(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}

	var req dto.ToggleAllRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.selections.ToggleAll(ctx.UserContext(), view, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle all", res))
}

func (c *selectionController) DeleteSelected(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}
	res, err := c.bulk.DeleteSelected(ctx.UserContext(), dto.Actor{UserId: view.UserId, Admin: serverutils.IsAdmin(ctx)}, view)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete selected records", res))
}

func (c *selectionController) ExportSelected(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return err
	}

	var req dto.ExportSelectedRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var buf bytes.Buffer
	actor := dto.Actor{UserId: view.UserId, Admin: serverutils.IsAdmin(ctx)}
	if err := c.bulk.ExportSelected(ctx.UserContext(), actor, view, req.Format, &buf); err != nil {
		return err
	}
	return sendExport(ctx, view.NodeType, req.Format, &buf)
}
