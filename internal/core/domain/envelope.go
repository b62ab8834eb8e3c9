package domain

// ResultEnvelope is the only shape returned across the gateway boundary.
// No operation ever propagates an error past it.
type ResultEnvelope[T any] struct {
	Success    bool   `json:"success"`
	Data       T      `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode string `json:"statusCode,omitempty"`
}

func Ok[T any](data T) ResultEnvelope[T] {
	return ResultEnvelope[T]{Success: true, Data: data}
}

func Fail[T any](err error) ResultEnvelope[T] {
	return ResultEnvelope[T]{
		Success:    false,
		Error:      err.Error(),
		StatusCode: ErrorStatusCode(err),
	}
}
