package domain

var (
	// sor_quote_requests_total
	//
	// counter of quote requests issued to the quote provider
	//
	// Has the following labels:
	// * trade_type - EXACT_INPUT or EXACT_OUTPUT
	// * route_type - V2, V3, STABLE or MIXED
	SORQuoteRequestsMetricName = "sor_quote_requests_total"

	// sor_quote_errors_total
	//
	// counter of failed quote requests. Failed quotes are dropped from selection.
	//
	// Has the following labels:
	// * trade_type - EXACT_INPUT or EXACT_OUTPUT
	// * route_type - V2, V3, STABLE or MIXED
	SORQuoteErrorsMetricName = "sor_quote_errors_total"

	// sor_candidate_routes
	//
	// histogram of the number of candidate routes enumerated per trade
	SORCandidateRoutesMetricName = "sor_candidate_routes"

	// sor_get_best_trade_duration_seconds
	//
	// histogram of GetBestTrade latency
	//
	// Has the following labels:
	// * trade_type - EXACT_INPUT or EXACT_OUTPUT
	SORGetBestTradeDurationMetricName = "sor_get_best_trade_duration_seconds"

	// sor_no_route_total
	//
	// counter of trades that ended without a valid route
	//
	// Has the following labels:
	// * trade_type - EXACT_INPUT or EXACT_OUTPUT
	SORNoRouteMetricName = "sor_no_route_total"

	// sor_pool_cache_hits_total
	//
	// counter of candidate pool cache hits
	SORPoolCacheHitsMetricName = "sor_pool_cache_hits_total"

	// sor_pool_cache_misses_total
	//
	// counter of candidate pool cache misses
	SORPoolCacheMissesMetricName = "sor_pool_cache_misses_total"

	// sor_gas_price_fetch_error_total
	//
	// counter of failed gas price lookups
	SORGasPriceFetchErrorMetricName = "sor_gas_price_fetch_error_total"

	// sor_pricing_cache_hits_total
	//
	// counter of USD price cache hits
	//
	// Has the following labels:
	// * source - the pricing source name
	SORPricingCacheHitsMetricName = "sor_pricing_cache_hits_total"

	// sor_pricing_cache_misses_total
	//
	// counter of USD price cache misses
	//
	// Has the following labels:
	// * source - the pricing source name
	SORPricingCacheMissesMetricName = "sor_pricing_cache_misses_total"

	// sor_requests_total
	//
	// counter of HTTP requests
	//
	// Has the following labels:
	// * method - the HTTP method
	// * endpoint - the request path
	// * status - the response status code
	SORRequestsMetricName = "sor_requests_total"

	// sor_request_duration_seconds
	//
	// histogram of HTTP request latencies
	//
	// Has the following labels:
	// * method - the HTTP method
	// * endpoint - the request path
	SORRequestDurationMetricName = "sor_request_duration_seconds"
)
