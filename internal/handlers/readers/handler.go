package readers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/domain"
	"gitlab.com/readerload.net/internal/handlers"
	"gitlab.com/readerload.net/internal/handlers/response"
)

// StatusProvider exposes reader statuses
type StatusProvider interface {
	Readers() []domain.ReaderStatus
	Reader(readerID int) (domain.ReaderStatus, bool)
}

type ApiHandler struct {
	Provider StatusProvider
	Shutdown func()
	Logger   primary.Logger
}

func NewHandler(provider StatusProvider, shutdown func(), logger primary.Logger) *ApiHandler {
	return &ApiHandler{
		Provider: provider,
		Shutdown: shutdown,
		Logger:   logger,
	}
}

func (api *ApiHandler) Register(r *mux.Router, mw *handlers.MiddlewareProvider) {
	r.HandleFunc("/healthz", api.Health).Methods("GET")
	r.HandleFunc("/api/readers", api.GetReaders).Methods("GET")
	r.HandleFunc("/api/readers/{readerId}", api.GetReader).Methods("GET")
	r.Handle("/api/shutdown", mw.JWTMiddleware(http.HandlerFunc(api.PostShutdown))).Methods("POST")
}

func (api *ApiHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (api *ApiHandler) GetReaders(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string][]domain.ReaderStatus{"readers": api.Provider.Readers()})
}

func (api *ApiHandler) GetReader(w http.ResponseWriter, r *http.Request) {
	readerID, err := strconv.Atoi(mux.Vars(r)["readerId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid reader id", StatusCode: http.StatusBadRequest})
		return
	}

	status, ok := api.Provider.Reader(readerID)
	if !ok {
		response.WriteError(w, response.ErrorMessage{Message: "Reader not found", StatusCode: http.StatusNotFound})
		return
	}

	response.WriteSuccess(w, status)
}

func (api *ApiHandler) PostShutdown(w http.ResponseWriter, r *http.Request) {
	api.Logger.Info("Shutdown requested", "remote", r.RemoteAddr)
	api.Shutdown()
	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "shutting down"})
}
