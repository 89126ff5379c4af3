package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
)

type SystemHandler struct {
	logger    log.Logger
	CIUsecase mvc.ChainInfoUsecase
	PUsecase  mvc.PoolsUsecase
	config    domain.Config
}

// HealthStatus is the /healthcheck response.
type HealthStatus struct {
	ChainLatestHeight uint64 `json:"chain_latest_height,omitempty"`
	PoolsLatestBlock  uint64 `json:"pools_latest_block"`
}

const versionPlaceholder = "version="

// NewSystemHandler will initialize the system resources endpoints.
// us may be nil when no chain RPC endpoint is configured.
func NewSystemHandler(e *echo.Echo, config domain.Config, logger log.Logger, us mvc.ChainInfoUsecase, pu mvc.PoolsUsecase) {
	handler := &SystemHandler{
		logger:    logger,
		CIUsecase: us,
		PUsecase:  pu,
		config:    config,
	}

	// if debug mod, enable additional profiles that are too intensive
	// for production.
	if !config.LoggerIsProduction {
		runtime.SetMutexProfileFraction(2)
		runtime.SetBlockProfileRate(2)
	}

	e.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	e.GET("/debug/pprof/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	e.GET("/debug/pprof/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	e.GET("/debug/pprof/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	e.GET("/debug/pprof/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))

	e.GET("/healthcheck", handler.GetHealthStatus)
	e.GET("/config", handler.GetConfig)
	e.GET("/version", handler.GetVersion)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

// GetConfig returns the config for the router service
func (h *SystemHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.config)
}

func (h *SystemHandler) GetVersion(c echo.Context) error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read build info")
	}

	for _, setting := range buildInfo.Settings {
		if setting.Key == "-ldflags" {
			version, err := extractVersion(setting.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to extract version information: %v", err))
			}

			return c.JSON(http.StatusOK, version)
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "failed to find version information")
}

// extractVersion extracts the version string from the ldflags
func extractVersion(ldFlagsValueStr string) (string, error) {
	index := strings.Index(ldFlagsValueStr, versionPlaceholder)
	if index == -1 {
		return "", errors.New("no version string found")
	}

	version := ldFlagsValueStr[index+len(versionPlaceholder):]
	if end := strings.IndexAny(version, " \t"); end != -1 {
		version = version[:end]
	}

	if version == "" {
		return "", errors.New("empty version string")
	}

	return version, nil
}

// GetHealthStatus reports unhealthy when the chain height stopped advancing
// or no pools snapshot is loaded.
func (h *SystemHandler) GetHealthStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var status HealthStatus

	if h.CIUsecase != nil {
		// Errors if the height has not been updated for too long.
		latestHeight, err := h.CIUsecase.GetLatestHeight(ctx)
		if err != nil {
			h.logger.Error("chain height check failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("Failed to get latest chain height: %s", err))
		}
		status.ChainLatestHeight = latestHeight
	}

	status.PoolsLatestBlock = h.PUsecase.GetLatestBlockNumber(ctx)
	if status.PoolsLatestBlock == 0 {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "No pools snapshot is loaded")
	}

	return c.JSON(http.StatusOK, status)
}
