package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	deliveryhttp "github.com/plunderswap/sor/delivery/http"
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/router/types"
)

// RouterHandler  represent the httphandler for the router
type RouterHandler struct {
	RUsecase mvc.RouterUsecase
	TUsecase mvc.TokensUsecase
	ChainID  domain.ChainID
	logger   log.Logger
}

const routerResource = "/router"

func formatRouterResource(resource string) string {
	return routerResource + resource
}

// NewRouterHandler will initialize the router/ resources endpoint
func NewRouterHandler(e *echo.Echo, us mvc.RouterUsecase, tu mvc.TokensUsecase, chainID domain.ChainID, logger log.Logger) {
	handler := &RouterHandler{
		RUsecase: us,
		TUsecase: tu,
		ChainID:  chainID,
		logger:   logger,
	}
	e.GET(formatRouterResource("/quote"), handler.GetOptimalQuote)
	e.GET(formatRouterResource("/routes"), handler.GetCandidateRoutes)
}

// @Summary Optimal Quote
// @Description returns the best trade it can compute for the given token pair.
// Exactly one of `tokenIn` (exact input) and `tokenOut` (exact output) must be given.
// @ID get-route-quote
// @Produce  json
// @Param  tokenIn  query  string  false  "Raw input amount for an exact input trade."
// @Param  tokenOut  query  string  false  "Raw output amount for an exact output trade."
// @Param  tokenInAddress  query  string  true  "Input token address, symbol or native."
// @Param  tokenOutAddress  query  string  true  "Output token address, symbol or native."
// @Param  maxHops  query  int  false  "Maximum pools per route."
// @Param  maxSplits  query  int  false  "Maximum routes in a split."
// @Param  distributionPercent  query  int  false  "Split granularity in percent."
// @Param  blockNumber  query  int  false  "Block to pin the trade to. Latest by default."
// @Param  poolTypes  query  string  false  "Comma separated pool types: V2, V3, STABLE."
// @Success 200  {object}  types.QuoteResponse  "The computed best trade"
// @Router /router/quote [get]
func (a *RouterHandler) GetOptimalQuote(c echo.Context) (err error) {
	ctx, span := deliveryhttp.Span(c)
	defer func() {
		deliveryhttp.RecordSpanError(span, err)
	}()

	var req types.GetQuoteRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	tradeType, err := req.TradeType()
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	tokenIn, err := a.TUsecase.GetCurrency(a.ChainID, req.TokenInAddress)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	tokenOut, err := a.TUsecase.GetCurrency(a.ChainID, req.TokenOutAddress)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	// The amount is denominated in the fixed side and currency is the other side.
	amount, currency := domain.NewCurrencyAmount(tokenIn, req.Amount()), tokenOut
	if tradeType == domain.TradeTypeExactOutput {
		amount, currency = domain.NewCurrencyAmount(tokenOut, req.Amount()), tokenIn
	}

	trade, err := a.RUsecase.GetBestTrade(ctx, amount, currency, tradeType, req.RouterOptions()...)
	if err != nil {
		statusCode := domain.GetStatusCode(err)
		if statusCode >= http.StatusInternalServerError {
			a.logger.Error("failed to compute best trade", zap.Stringer("amount", amount), zap.Stringer("currency", currency), zap.Error(err))
		}
		return c.JSON(statusCode, domain.ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, types.NewQuoteResponse(trade))
}

// @Summary Token Routing Information
// @Description returns all candidate routes between the two tokens within the hop bound.
// @ID get-router-routes
// @Produce  json
// @Param  tokenInAddress  query  string  true  "Input token address, symbol or native."
// @Param  tokenOutAddress  query  string  true  "Output token address, symbol or native."
// @Param  maxHops  query  int  false  "Maximum pools per route."
// @Success 200  {array}  types.RouteResponse  "Candidate routes"
// @Router /router/routes [get]
func (a *RouterHandler) GetCandidateRoutes(c echo.Context) (err error) {
	ctx, span := deliveryhttp.Span(c)
	defer func() {
		deliveryhttp.RecordSpanError(span, err)
	}()

	var req types.GetRoutesRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	tokenIn, err := a.TUsecase.GetCurrency(a.ChainID, req.TokenInAddress)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	tokenOut, err := a.TUsecase.GetCurrency(a.ChainID, req.TokenOutAddress)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	var opts []domain.RouterOption
	if req.MaxHops > 0 {
		opts = append(opts, domain.WithMaxHops(req.MaxHops))
	}

	routes, err := a.RUsecase.GetCandidateRoutes(ctx, tokenIn, tokenOut, opts...)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, types.NewRoutesResponse(routes))
}
