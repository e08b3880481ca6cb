package proxy

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultInfoBanner is served on GET /info.
	DefaultInfoBanner = "This web3 provider is protected by web3-proxy"

	notFoundBody = "404 - not found"
)

// NewRouter maps the HTTP surface:
//
//	POST /     proxy handler
//	OPTIONS /  CORS preflight
//	GET /info  banner
//
// Everything else, including a known path with another method, is a 404.
func NewRouter(proxy http.Handler, banner string) *mux.Router {
	r := mux.NewRouter()
	// Unclean paths such as //info are not redirected.
	r.SkipClean(true)

	r.Handle("/", proxy).Methods(http.MethodPost)
	r.HandleFunc("/", handlePreflight).Methods(http.MethodOptions)
	r.HandleFunc("/info", handleInfo(banner)).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleNotFound)

	return r
}

// NewServerHandler returns the router wrapped in otelhttp so that every
// request runs inside a server span.
func NewServerHandler(proxy http.Handler, banner string) http.Handler {
	return otelhttp.NewHandler(NewRouter(proxy, banner), "web3-proxy",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "*")
	w.WriteHeader(http.StatusOK)
}

func handleInfo(banner string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, banner)
	}
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusNotFound, notFoundBody)
}
