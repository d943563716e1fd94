/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing JSON request bodies with strict field checking,
and integrates error handling to ensure data format correctness for subsequent
business logic processing.
*/
package req

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"hvchat/internal/pkg/errs"
)

// MaxBodyBytes caps the request body size accepted by BindJSON. The largest
// JSON payload the API takes is a character update; 64 KiB is generous.
const MaxBodyBytes = 64 << 10

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
