package controller

import (
	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/serverutils"
	"td-generator-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Schemes(ctx *fiber.Ctx) error
	Properties(ctx *fiber.Ctx) error
	Chips(ctx *fiber.Ctx) error
	Nodes(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog")
	h.Get("schemes", c.Schemes)
	h.Get("schemes/:scheme", c.Properties)
	h.Get("schemes/:scheme/:property", c.Chips)
	h.Get("nodes", c.Nodes)
}

func (c *catalogController) Schemes(ctx *fiber.Ctx) error {
	items, err := c.service.ListSchemes(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list schemes", dto.CatalogResponse{Items: items}))
}

func (c *catalogController) Properties(ctx *fiber.Ctx) error {
	items, err := c.service.ListProperties(ctx.UserContext(), param(ctx, "scheme"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list properties", dto.CatalogResponse{Items: items}))
}

func (c *catalogController) Chips(ctx *fiber.Ctx) error {
	items, err := c.service.ListChips(ctx.UserContext(), param(ctx, "scheme"), param(ctx, "property"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list chips", dto.CatalogResponse{Items: items}))
}

func (c *catalogController) Nodes(ctx *fiber.Ctx) error {
	items, err := c.service.ListNodes(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list nodes", dto.CatalogResponse{Items: items}))
}
