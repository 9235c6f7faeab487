package handlers

import (
	"sgspadmin/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, common.BadRequest(common.CodeInvalidRequest, err.Error())
	}
	return id, nil
}

func bindBody(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return common.BadRequest(common.CodeInvalidRequest, "Invalid request format")
	}
	return nil
}
