package primegaming

import "fmt"

// MissingPayloadError is returned when a 2xx response decodes fine
// but the expected key under `data` is null. The portal does this
// instead of failing the request when a query is rejected.
type MissingPayloadError struct {
	Key string
}

func (e MissingPayloadError) Error() string {
	return fmt.Sprintf("response is missing data.%s", e.Key)
}

func MissingPayload(key string) error {
	return MissingPayloadError{Key: key}
}
