package http

import (
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Path parameters use the simple style and query parameters the exploded form
// style, the OpenAPI defaults for the routes in openapi.yaml.

func pathParam(c echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

// queryParam leaves dest untouched when the parameter is absent.
func queryParam(c echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	if err := pathParam(c, name, &id); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(id[:])
}

func pathTableNumber(c echo.Context) (int, error) {
	var number int
	err := pathParam(c, "number", &number)
	return number, err
}

func pathString(c echo.Context, name string) (string, error) {
	var v string
	err := pathParam(c, name, &v)
	return v, err
}

func queryString(c echo.Context, name string) (string, error) {
	var v string
	err := queryParam(c, name, &v)
	return v, err
}

func queryInt(c echo.Context, name string) (int, error) {
	var v int
	err := queryParam(c, name, &v)
	return v, err
}

func queryBool(c echo.Context, name string) (bool, error) {
	var v bool
	err := queryParam(c, name, &v)
	return v, err
}
