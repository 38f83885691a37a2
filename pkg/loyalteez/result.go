package loyalteez

import (
	"encoding/json"

	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
)

// Result is the uniform outcome of a tracking call.
type Result struct {
	Success         bool     `json:"success"`
	LTZDistributed  *float64 `json:"ltzDistributed,omitempty"`
	WalletAddress   string   `json:"walletAddress,omitempty"`
	TransactionHash string   `json:"transactionHash,omitempty"`
	Error           string   `json:"error,omitempty"`

	// Code classifies a failure; empty on success. Not part of the wire form.
	Code pkgerrors.Code `json:"-"`

	// raw is the upstream body for results taken verbatim from the endpoint.
	raw json.RawMessage
}

type resultAlias Result

// MarshalJSON re-emits the upstream body unchanged when the result came from
// a successful exchange, so fields unknown to this package survive a proxy hop.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(resultAlias(r))
}

// Distributed returns the LTZ amount, or zero when none was reported.
func (r Result) Distributed() float64 {
	if r.LTZDistributed == nil {
		return 0
	}
	return *r.LTZDistributed
}

// Failure converts an error into a failed result. Untyped errors are
// classified as internal.
func Failure(err error) Result {
	if err == nil {
		return Result{Success: false, Error: "unknown error", Code: pkgerrors.CodeInternal}
	}
	if typed := pkgerrors.As(err); typed != nil {
		msg := typed.Message()
		if msg == "" {
			msg = pkgerrors.MetadataFor(typed.Code()).PublicMessage
		}
		return Result{Success: false, Error: msg, Code: typed.Code()}
	}
	return Result{Success: false, Error: err.Error(), Code: pkgerrors.CodeInternal}
}

// decodeResult reads a 2xx body. Only the success flag must be a boolean;
// the other known fields are taken when their types match and skipped
// otherwise, since raw carries the body through unchanged either way.
func decodeResult(text []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(text, &fields); err != nil {
		return Result{}, err
	}

	var result Result
	if raw, ok := fields["success"]; ok {
		if err := json.Unmarshal(raw, &result.Success); err != nil {
			return Result{}, err
		}
	}

	var amount float64
	if lenientField(fields, "ltzDistributed", &amount) {
		result.LTZDistributed = &amount
	}
	lenientField(fields, "walletAddress", &result.WalletAddress)
	lenientField(fields, "transactionHash", &result.TransactionHash)
	lenientField(fields, "error", &result.Error)
	return result, nil
}

// lenientField decodes fields[key] into dest, reporting whether it did.
func lenientField(fields map[string]json.RawMessage, key string, dest any) bool {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func failure(code pkgerrors.Code, msg string) Result {
	return Result{Success: false, Error: msg, Code: code}
}

// outcome is the metrics label for a result.
func (r Result) outcome() string {
	switch r.Code {
	case "":
		return "success"
	case pkgerrors.CodeUpstreamRejected:
		return "rejected"
	case pkgerrors.CodeUpstreamTransport:
		return "transport"
	case pkgerrors.CodeUpstreamTimeout:
		return "timeout"
	case pkgerrors.CodeUpstreamResponse:
		return "response"
	case pkgerrors.CodeConfiguration:
		return "configuration"
	case pkgerrors.CodeValidation:
		return "validation"
	default:
		return "error"
	}
}
