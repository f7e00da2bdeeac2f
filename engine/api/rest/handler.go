package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/module/irrecoverable"
)

// ApiHandlerFunc is a function that contains endpoint handling logic,
// it fetches necessary resources and returns an error or response model.
type ApiHandlerFunc func(r *Request, api API) (interface{}, error)

// Handler is custom http handler implementing custom handler function.
// Handler function allows easier handling of errors and responses as it
// wraps functionality for handling error and responses outside of endpoint handling.
type Handler struct {
	logger         zerolog.Logger
	api            API
	apiHandlerFunc ApiHandlerFunc
}

func NewHandler(logger zerolog.Logger, api API, handlerFunc ApiHandlerFunc) *Handler {
	return &Handler{
		logger:         logger,
		api:            api,
		apiHandlerFunc: handlerFunc,
	}
}

// ServeHTTP function acts as a wrapper to each request providing common handling functionality
// such as logging, error handling, request decorators
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// create a logger
	errLog := h.logger.With().Str("request_url", r.URL.String()).Logger()

	response, err := h.apiHandlerFunc(newRequest(r), h.api)
	if err != nil {
		h.errorHandler(w, err, errLog)
		return
	}

	h.jsonResponse(w, http.StatusOK, response, errLog)
}

func (h *Handler) errorHandler(w http.ResponseWriter, err error, errorLogger zerolog.Logger) {
	statusErr := errorToStatusError(err)
	if statusErr.Status() == http.StatusInternalServerError {
		if irrecoverable.IsException(err) {
			errorLogger.Error().Err(err).Msg("irrecoverable error while serving request")
		} else {
			errorLogger.Error().Err(err).Msg("internal server error")
		}
	}
	h.errorResponse(w, statusErr.Status(), statusErr.UserMessage(), errorLogger)
}

// jsonResponse builds a JSON response and send it to the client
func (h *Handler) jsonResponse(w http.ResponseWriter, code int, response interface{}, errLogger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	encodedResponse, err := json.MarshalIndent(response, "", "\t")
	if err != nil {
		errLogger.Error().Err(err).Str("response", fmt.Sprintf("%v", response)).Msg("failed to indent response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	_, err = w.Write(encodedResponse)
	if err != nil {
		errLogger.Error().Err(err).Msg("failed to write http response")
	}
}

// errorResponse sends an HTTP error response to the client with the given return code
// and a model error with the given response message in the response body
func (h *Handler) errorResponse(w http.ResponseWriter, returnCode int, responseMessage string, logger zerolog.Logger) {
	modelError := ModelError{
		Code:    int32(returnCode),
		Message: responseMessage,
	}
	h.jsonResponse(w, returnCode, modelError, logger)
}
