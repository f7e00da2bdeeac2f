package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/arpa-network/randcast-controller/model/randcast"
)

// maxBodySize bounds the request bodies the server reads.
const maxBodySize = 1 << 20

var validate = validator.New()

var errEmptyBody = errors.New("request body must not be empty")

// Request a convenience wrapper around the http request to make it easy to read request query params
type Request struct {
	*http.Request
}

func newRequest(r *http.Request) *Request {
	return &Request{Request: r}
}

// GetVar returns the path variable with the given name.
func (rd *Request) GetVar(name string) string {
	return mux.Vars(rd.Request)[name]
}

// Address parses the address path variable with the given name.
func (rd *Request) Address(name string) (randcast.Address, error) {
	raw := rd.GetVar(name)
	if !randcast.IsHexAddress(raw) {
		return randcast.ZeroAddress, NewBadRequestError(fmt.Errorf("invalid address %q", raw))
	}
	return randcast.HexToAddress(raw), nil
}

// Uint64 parses the unsigned integer path variable with the given name.
func (rd *Request) Uint64(name string) (uint64, error) {
	raw := rd.GetVar(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewBadRequestError(fmt.Errorf("invalid %s %q: %w", name, raw, err))
	}
	return v, nil
}

// Int parses the non-negative integer path variable with the given name.
func (rd *Request) Int(name string) (int, error) {
	raw := rd.GetVar(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, NewBadRequestError(fmt.Errorf("invalid %s %q", name, raw))
	}
	return v, nil
}

// Body decodes and validates the JSON body into v.
func (rd *Request) Body(v interface{}) error {
	if rd.Request.Body == nil {
		return NewBadRequestError(errEmptyBody)
	}
	dec := json.NewDecoder(io.LimitReader(rd.Request.Body, maxBodySize))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == io.EOF {
		return NewBadRequestError(errEmptyBody)
	}
	if err != nil {
		return NewBadRequestError(fmt.Errorf("invalid request body: %w", err))
	}
	err = validate.Struct(v)
	if err != nil {
		return NewBadRequestError(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}
