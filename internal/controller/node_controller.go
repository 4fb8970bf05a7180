package controller

import (
	"bytes"
	"fmt"
	"time"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/pkg/serverutils"
	"datahub-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INodeController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type nodeController struct {
	service service.INodeService
	auth    fiber.Handler
}

func NewNodeController(service service.INodeService, auth fiber.Handler) INodeController {
	return &nodeController{service: service, auth: auth}
}

func (c *nodeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/submission/v1/:submissionId/nodes")
	h.Use(c.auth)
	h.Get("", c.List)
	h.Post("/delete", c.Delete)
	h.Post("/export", c.Export)
}

func submissionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("submissionId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid submission id")
	}
	return id, nil
}

func currentActor(ctx *fiber.Ctx) (dto.Actor, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return dto.Actor{}, err
	}
	return dto.Actor{UserId: userId, Admin: serverutils.IsAdmin(ctx)}, nil
}

func (c *nodeController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	submissionId, err := submissionID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListNodesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.SubmissionId = submissionId
	req.UserId = userId

	res, err := c.service.ListNodes(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list nodes", res))
}

func (c *nodeController) Delete(ctx *fiber.Ctx) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	submissionId, err := submissionID(ctx)
	if err != nil {
		return err
	}

	var req dto.DeleteRecordsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.SubmissionId = submissionId

	res, err := c.service.DeleteRecords(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete records", res))
}

func (c *nodeController) Export(ctx *fiber.Ctx) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	submissionId, err := submissionID(ctx)
	if err != nil {
		return err
	}

	var req dto.ExportRecordsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.SubmissionId = submissionId

	var buf bytes.Buffer
	if err := c.service.ExportRecords(ctx.UserContext(), actor, &req, &buf); err != nil {
		return err
	}
	return sendExport(ctx, req.NodeType, req.Format, &buf)
}

// sendExport writes a finished export as an attachment. The file is built
// in memory first so a failure still yields an error envelope.
func sendExport(ctx *fiber.Ctx, nodeType, format string, buf *bytes.Buffer) error {
	if format == "" {
		format = service.ExportFormatCSV
	}
	contentType := "text/csv"
	if format == service.ExportFormatTSV {
		contentType = "text/tab-separated-values"
	}

	ctx.Attachment(fmt.Sprintf("%s-%s.%s", nodeType, time.Now().UTC().Format("20060102T150405"), format))
	ctx.Set(fiber.HeaderContentType, contentType+"; charset=utf-8")
	return ctx.Send(buf.Bytes())
}
