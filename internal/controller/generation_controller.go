package controller

import (
	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/serverutils"
	"td-generator-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	generatedArchiveName = "generated_files.zip"
	randomArchiveName    = "random_generated_files.zip"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	OpenFile(ctx *fiber.Ctx) error
	SaveFile(ctx *fiber.Ctx) error
	GenerateSingleFile(ctx *fiber.Ctx) error
	LoadSingleFile(ctx *fiber.Ctx) error
	ModifyFile(ctx *fiber.Ctx) error
	GenerateNodes(ctx *fiber.Ctx) error
	PrepareRandomFiles(ctx *fiber.Ctx) error
	DownloadRandomFiles(ctx *fiber.Ctx) error
}

type generationController struct {
	service service.IGenerationService
}

func NewGenerationController(service service.IGenerationService) IGenerationController {
	return &generationController{service: service}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/workspaces")
	ws.Post(":id/generate", c.Generate)
	ws.Get(":id/download", c.Download)
	ws.Get(":id/files", c.OpenFile)
	ws.Put(":id/files", c.SaveFile)
	ws.Post(":id/single/generate", c.GenerateSingleFile)
	ws.Post(":id/single/load", c.LoadSingleFile)
	ws.Post(":id/single/modify", c.ModifyFile)

	r.Post("/nodes", c.GenerateNodes)
	r.Post("/random/prepare", c.PrepareRandomFiles)
	r.Get("/random/download", c.DownloadRandomFiles)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	res, err := c.service.Generate(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success prepare files", res))
}

func (c *generationController) Download(ctx *fiber.Ctx) error {
	data, err := c.service.Download(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return sendArchive(ctx, generatedArchiveName, data)
}

func (c *generationController) OpenFile(ctx *fiber.Ctx) error {
	var query dto.FileQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Parse("invalid query", err)
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.OpenFile(ctx.UserContext(), ctx.Params("id"), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open file", res))
}

func (c *generationController) SaveFile(ctx *fiber.Ctx) error {
	var req dto.SaveFileRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SaveFile(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save file", res))
}

func (c *generationController) GenerateSingleFile(ctx *fiber.Ctx) error {
	var req dto.SingleFileGenerateRequest
	if len(ctx.Body()) > 0 {
		if err := bindBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.GenerateSingleFile(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate file", res))
}

func (c *generationController) LoadSingleFile(ctx *fiber.Ctx) error {
	var req dto.SingleFileLoadRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.LoadSingleFile(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load file", res))
}

func (c *generationController) ModifyFile(ctx *fiber.Ctx) error {
	res, err := c.service.ModifyFile(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success modify file", res))
}

func (c *generationController) GenerateNodes(ctx *fiber.Ctx) error {
	var req dto.GenerateNodesRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.GenerateNodes(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate nodes", res))
}

func (c *generationController) PrepareRandomFiles(ctx *fiber.Ctx) error {
	var req dto.PrepareRandomFilesRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.PrepareRandomFiles(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success prepare random files", res))
}

func (c *generationController) DownloadRandomFiles(ctx *fiber.Ctx) error {
	data, err := c.service.DownloadRandomFiles(ctx.UserContext())
	if err != nil {
		return err
	}

	return sendArchive(ctx, randomArchiveName, data)
}

func sendArchive(ctx *fiber.Ctx, name string, data []byte) error {
	ctx.Set(fiber.HeaderContentType, "application/zip")
	ctx.Attachment(name)
	return ctx.Send(data)
}
