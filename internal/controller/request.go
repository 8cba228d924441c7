package controller

import (
	"net/url"
	"strconv"

	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// bindBody parses the JSON body into req and runs its validate tags.
func bindBody(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Parse("invalid request body", err)
	}
	return serverutils.ValidateRequest(req)
}

// param returns a path parameter with percent-escapes decoded. Scheme and
// property names may contain characters that need escaping.
func param(ctx *fiber.Ctx, name string) string {
	raw := ctx.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid id", name+" must be a UUID")
	}
	return id, nil
}

func intParam(ctx *fiber.Ctx, name string) (int, error) {
	n, err := strconv.Atoi(ctx.Params(name))
	if err != nil {
		return 0, apperror.Validation("invalid index", name+" must be an integer")
	}
	return n, nil
}
