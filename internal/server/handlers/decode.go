package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

const maxBodyBytes = 64 << 10

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.ValidationError("invalid JSON body").WithCause(err).Build()
	}
	return nil
}
