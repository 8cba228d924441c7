package controller

import (
	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/serverutils"
	"td-generator-be/internal/service"
	"td-generator-be/pkg/selection"

	"github.com/gofiber/fiber/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SelectScheme(ctx *fiber.Ctx) error
	SelectProperty(ctx *fiber.Ctx) error
	SelectNode(ctx *fiber.Ctx) error
	ToggleChip(ctx *fiber.Ctx) error
	SetRange(ctx *fiber.Ctx) error
	SetLocations(ctx *fiber.Ctx) error
	SaveSelection(ctx *fiber.Ctx) error
	ListGroups(ctx *fiber.Ctx) error
	EditGroup(ctx *fiber.Ctx) error
	DeleteGroup(ctx *fiber.Ctx) error
	UploadDocuments(ctx *fiber.Ctx) error
	RemoveDocument(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkbenchService
}

func NewWorkspaceController(service service.IWorkbenchService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspaces")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)

	h.Put(":id/scheme", c.SelectScheme)
	h.Put(":id/property", c.SelectProperty)
	h.Put(":id/node", c.SelectNode)
	h.Post(":id/chips/:label", c.ToggleChip)
	h.Put(":id/range", c.SetRange)
	h.Put(":id/locations", c.SetLocations)

	h.Post(":id/selections", c.SaveSelection)
	h.Get(":id/groups", c.ListGroups)
	h.Get(":id/groups/:node/:scheme", c.EditGroup)
	h.Delete(":id/groups/:node/:scheme", c.DeleteGroup)

	h.Post(":id/documents", c.UploadDocuments)
	h.Delete(":id/documents/:index", c.RemoveDocument)
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateWorkspaceRequest
	// An empty body creates a workspace with the server defaults.
	if len(ctx.Body()) > 0 {
		if err := bindBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.CreateWorkspace(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create workspace", res))
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetWorkspace(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show workspace", res))
}

func (c *workspaceController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteWorkspace(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete workspace", nil))
}

func (c *workspaceController) SelectScheme(ctx *fiber.Ctx) error {
	var req dto.SelectSchemeRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectScheme(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select scheme", res))
}

func (c *workspaceController) SelectProperty(ctx *fiber.Ctx) error {
	var req dto.SelectPropertyRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectProperty(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select property", res))
}

func (c *workspaceController) SelectNode(ctx *fiber.Ctx) error {
	var req dto.SelectNodeRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectNode(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select node", res))
}

func (c *workspaceController) ToggleChip(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleChip(ctx.UserContext(), ctx.Params("id"), param(ctx, "label"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle chip", res))
}

func (c *workspaceController) SetRange(ctx *fiber.Ctx) error {
	var req dto.SetRangeRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetRange(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set range", res))
}

func (c *workspaceController) SetLocations(ctx *fiber.Ctx) error {
	var req dto.SetLocationsRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetLocationDraft(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set locations", res))
}

func (c *workspaceController) SaveSelection(ctx *fiber.Ctx) error {
	res, err := c.service.SaveSelection(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	msg := "Success save selection"
	if res.Duplicate {
		msg = "Selection already saved"
	}
	return ctx.JSON(serverutils.SuccessResponse(msg, res))
}

func (c *workspaceController) ListGroups(ctx *fiber.Ctx) error {
	res, err := c.service.ListGroups(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list groups", res))
}

func (c *workspaceController) EditGroup(ctx *fiber.Ctx) error {
	res, err := c.service.EditGroup(ctx.UserContext(), ctx.Params("id"), groupKey(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load group", res))
}

func (c *workspaceController) DeleteGroup(ctx *fiber.Ctx) error {
	res, err := c.service.DeleteGroup(ctx.UserContext(), ctx.Params("id"), groupKey(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete group", res))
}

func (c *workspaceController) UploadDocuments(ctx *fiber.Ctx) error {
	var req dto.UploadDocumentsRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UploadDocuments(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload documents", res))
}

func (c *workspaceController) RemoveDocument(ctx *fiber.Ctx) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}

	res, err := c.service.RemoveDocument(ctx.UserContext(), ctx.Params("id"), index)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove document", res))
}

func groupKey(ctx *fiber.Ctx) selection.GroupKey {
	return selection.GroupKey{Node: param(ctx, "node"), Scheme: param(ctx, "scheme")}
}
