package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// NotifyEnvelope wraps a combinator outcome: the payload plus the
// notification signal the storefront console renders as a toast.
type NotifyEnvelope struct {
	Data   any    `json:"data"`
	Signal string `json:"signal"`
	OK     bool   `json:"ok"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
