package httptransport

import "expvar"

var (
	metricPurchaseTotal  = expvar.NewInt("nft_purchase_total")
	metricPurchaseErrors = expvar.NewInt("nft_purchase_errors_total")

	metricCheckoutTotal  = expvar.NewInt("checkout_total")
	metricCheckoutErrors = expvar.NewInt("checkout_errors_total")

	metricSessionRegisterTotal  = expvar.NewInt("session_register_total")
	metricSessionRegisterErrors = expvar.NewInt("session_register_errors_total")

	metricRequestCreateTotal  = expvar.NewInt("request_create_total")
	metricRequestCreateErrors = expvar.NewInt("request_create_errors_total")

	metricRequestResolveTotal  = expvar.NewInt("request_resolve_total")
	metricRequestResolveErrors = expvar.NewInt("request_resolve_errors_total")
)
