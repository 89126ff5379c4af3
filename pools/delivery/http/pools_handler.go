package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/router/types"
)

// PoolsHandler  represent the httphandler for pools
type PoolsHandler struct {
	PUsecase mvc.PoolsUsecase
}

const resourcePrefix = "/pools"

func formatPoolsResource(resource string) string {
	return resourcePrefix + resource
}

// NewPoolsHandler will initialize the pools/ resources endpoint
func NewPoolsHandler(e *echo.Echo, us mvc.PoolsUsecase) {
	handler := &PoolsHandler{
		PUsecase: us,
	}

	e.GET(formatPoolsResource(""), handler.GetPools)
}

// @Summary Get pool(s) information
// @Description Returns the pools of the latest snapshot if the addresses parameter is not given. Otherwise,
// @Description it batch fetches specific pools by the given addresses.
// @ID get-pools
// @Produce  json
// @Param  addresses  query  string  false  "Comma-separated list of pool addresses to fetch"
// @Success 200  {array}  types.PoolResponse  "List of pool(s) details"
// @Router /pools [get]
func (a *PoolsHandler) GetPools(c echo.Context) error {
	ctx := c.Request().Context()

	addressesStr := c.QueryParam("addresses")

	var (
		pools []domain.Pool
		err   error
	)

	// if addresses are not given, get all pools
	if len(addressesStr) == 0 {
		pools, err = a.PUsecase.GetAllPools(ctx)
		if err != nil {
			return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
		}
	} else {
		for _, addressStr := range strings.Split(addressesStr, ",") {
			address, ok := domain.ParseAddress(addressStr)
			if !ok {
				err := fmt.Errorf("%w: invalid pool address %q", domain.ErrBadParamInput, addressStr)
				return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
			}

			pool, err := a.PUsecase.GetPool(ctx, address)
			if err != nil {
				return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
			}
			pools = append(pools, pool)
		}
	}

	result := make([]types.PoolResponse, 0, len(pools))
	for _, pool := range pools {
		result = append(result, types.NewPoolResponse(pool))
	}

	return c.JSON(http.StatusOK, result)
}
