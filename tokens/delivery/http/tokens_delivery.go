package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/router/types"

	_ "github.com/plunderswap/sor/docs"
)

// TokensHandler  represent the httphandler for tokens
type TokensHandler struct {
	TUsecase    mvc.TokensUsecase
	PriceOracle domain.PriceOracle
	ChainID     domain.ChainID
	logger      log.Logger
}

const tokensResource = "/tokens"

func formatTokensResource(resource string) string {
	return tokensResource + resource
}

// NewTokensHandler will initialize the tokens/ resources endpoint.
// priceOracle may be nil, in which case /tokens/prices is not served.
func NewTokensHandler(e *echo.Echo, ts mvc.TokensUsecase, priceOracle domain.PriceOracle, chainID domain.ChainID, logger log.Logger) {
	handler := &TokensHandler{
		TUsecase:    ts,
		PriceOracle: priceOracle,
		ChainID:     chainID,
		logger:      logger,
	}
	e.GET(formatTokensResource("/metadata"), handler.GetMetadata)
	if priceOracle != nil {
		e.GET(formatTokensResource("/prices"), handler.GetPrices)
	}
}

// @Summary Token Metadata
// @Description returns the metadata of the given tokens, or of every known token when none are given.
// @ID get-token-metadata
// @Produce  json
// @Param  tokens  query  string  false  "Comma separated token addresses, symbols or native"
// @Success 200 {object} map[string]types.CurrencyResponse "Success"
// @Router /tokens/metadata [get]
func (a *TokensHandler) GetMetadata(c echo.Context) (err error) {
	tokensStr := c.QueryParam("tokens")
	if len(tokensStr) == 0 {
		currencies := a.TUsecase.GetAllCurrencies()
		result := make(map[string]types.CurrencyResponse, len(currencies))
		for _, currency := range currencies {
			if currency.ChainID != a.ChainID {
				continue
			}
			response := types.NewCurrencyResponse(currency)
			result[response.Address] = response
		}
		return c.JSON(http.StatusOK, result)
	}

	currencies, err := a.parseCurrencies(tokensStr)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	result := make(map[string]types.CurrencyResponse, len(currencies))
	for token, currency := range currencies {
		result[token] = types.NewCurrencyResponse(currency)
	}

	return c.JSON(http.StatusOK, result)
}

// @Summary Get prices
// @Description Given a list of tokens, returns their USD prices.
// @ID get-prices
// @Produce  json
// @Param  tokens  query  string  true  "Comma separated token addresses, symbols or native"
// @Success 200 {object} map[string]string "A map where each key is a token as given and the value is its USD price"
// @Router /tokens/prices [get]
func (a *TokensHandler) GetPrices(c echo.Context) (err error) {
	ctx := c.Request().Context()

	tokensStr := c.QueryParam("tokens")
	if len(tokensStr) == 0 {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: "tokens is required"})
	}

	currencies, err := a.parseCurrencies(tokensStr)
	if err != nil {
		return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
	}

	prices := make(map[string]osmomath.Dec, len(currencies))
	for token, currency := range currencies {
		price, err := a.PriceOracle.GetUSDPrice(ctx, currency)
		if err != nil {
			if ctx.Err() != nil {
				return c.JSON(domain.GetStatusCode(ctx.Err()), domain.ResponseError{Message: ctx.Err().Error()})
			}
			a.logger.Debug("no price for token", zap.String("token", token), zap.Error(err))
			// Unpriced tokens are reported as zero.
			price = osmomath.ZeroDec()
		}
		prices[token] = price
	}

	return c.JSON(http.StatusOK, prices)
}

// parseCurrencies resolves a comma separated list of tokens keyed by the token as given.
func (a *TokensHandler) parseCurrencies(tokensStr string) (map[string]domain.Currency, error) {
	tokens := strings.Split(tokensStr, ",")
	result := make(map[string]domain.Currency, len(tokens))
	for _, token := range tokens {
		token, err := url.PathUnescape(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrBadParamInput, err)
		}
		if token == "" {
			continue
		}

		currency, err := a.TUsecase.GetCurrency(a.ChainID, token)
		if err != nil {
			return nil, err
		}
		result[token] = currency
	}
	return result, nil
}
