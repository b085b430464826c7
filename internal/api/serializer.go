package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

type jsonSerializer struct {
	api sonic.API
}

func NewJSONSerializer() echo.JSONSerializer {
	return &jsonSerializer{api: sonic.ConfigStd}
}

func (s *jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.api.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := s.api.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body: "+err.Error()).SetInternal(err)
	}
	return nil
}
