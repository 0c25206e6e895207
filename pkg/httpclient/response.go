package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/RentalGo/pkg/errors"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 8 << 20

// DecodeJSON checks that resp carries a 2xx status and decodes its body into v.
// A non-2xx status yields a NetworkFailure; an undecodable body a ParseFailure.
// The body is always closed.
func DecodeJSON(resp *http.Response, v any, service string) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NetworkFailure(service,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return apperrors.ParseFailure(service, err)
	}
	return nil
}
