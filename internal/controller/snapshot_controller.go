package controller

import (
	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/serverutils"
	"td-generator-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISnapshotController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type snapshotController struct {
	service service.ISnapshotService
}

func NewSnapshotController(service service.ISnapshotService) ISnapshotController {
	return &snapshotController{service: service}
}

func (c *snapshotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/snapshots")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/restore", c.Restore)
	h.Delete(":id", c.Delete)
}

func (c *snapshotController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSnapshotRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create snapshot", res))
}

func (c *snapshotController) GetAll(ctx *fiber.Ctx) error {
	var query dto.SnapshotListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Parse("invalid query", err)
	}
	if err := serverutils.ValidateRequest(&query); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all snapshots", res))
}

func (c *snapshotController) Show(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show snapshot", res))
}

func (c *snapshotController) Restore(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.RestoreSnapshotRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Restore(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore snapshot", res))
}

func (c *snapshotController) Delete(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete snapshot", nil))
}
