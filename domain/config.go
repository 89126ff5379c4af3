package domain

// Config defines the config for the smart order router service.
type Config struct {
	// Defines the web server configuration.
	ServerAddress             string `mapstructure:"server-address"`
	ServerTimeoutDurationSecs int    `mapstructure:"timeout-duration-secs"`

	// Defines the logger configuration.
	LoggerFilename     string `mapstructure:"logger-filename"`
	LoggerIsProduction bool   `mapstructure:"logger-is-production"`
	LoggerLevel        string `mapstructure:"logger-level"`

	// JSON-RPC endpoint of the chain. Empty disables on-chain adapters.
	ChainRPCEndpoint string  `mapstructure:"rpc-endpoint"`
	ChainID          ChainID `mapstructure:"chain-id"`

	// Gas price polling interval in milliseconds.
	GasPriceRefetchIntervalMs int `mapstructure:"gas-price-refetch-interval-ms"`
	// Block height polling interval in milliseconds.
	HeightRefetchIntervalMs int `mapstructure:"height-refetch-interval-ms"`
	// The chain is reported unhealthy if the height does not advance for this many seconds.
	MaxHeightUpdateDeltaSecs int `mapstructure:"max-height-update-delta-secs"`

	// Contracts used for on-chain quoting.
	Contracts *ContractsConfig `mapstructure:"contracts"`

	// Router encapsulates the router config.
	Router *RouterConfig `mapstructure:"router"`

	// Pools encapsulates the pools config.
	Pools *PoolsConfig `mapstructure:"pools"`

	Pricing *PricingConfig `mapstructure:"pricing"`

	Tokens *TokensConfig `mapstructure:"tokens"`

	CORS *CORSConfig `mapstructure:"cors"`

	OTEL *OTELConfig `mapstructure:"otel"`
}

// ContractsConfig holds the addresses of the quoting contracts.
type ContractsConfig struct {
	QuoterV2Address string `mapstructure:"quoter-v2"`
	V2RouterAddress string `mapstructure:"v2-router"`
}

// CORSConfig represents HTTP CORS headers configuration.
type CORSConfig struct {
	AllowedHeaders string `mapstructure:"allowed-headers"`
	AllowedMethods string `mapstructure:"allowed-methods"`
	AllowedOrigin  string `mapstructure:"allowed-origin"`
}

// OTELConfig represents OpenTelemetry configuration.
type OTELConfig struct {
	DSN                string  `mapstructure:"dsn"`
	SampleRate         float64 `mapstructure:"sample-rate"`
	EnableTracing      bool    `mapstructure:"enable-tracing"`
	TracesSampleRate   float64 `mapstructure:"traces-sample-rate"`
	ProfilesSampleRate float64 `mapstructure:"profiles-sample-rate"`
	Environment        string  `mapstructure:"environment"`
}
