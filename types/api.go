package types

// Envelope is the generic response body: every endpoint reports a
// status flag (1 = ok, 0 = failure) plus optional payload keys.
// Kept as a map because the payload shape varies per endpoint and the
// wire contract predates this server.
type Envelope map[string]interface{}

// OKEnvelope returns a fresh success envelope
func OKEnvelope() Envelope {
	return Envelope{"status": 1, "status_verbose": "OK"}
}

// FailedEnvelope returns a failure envelope with the given explanation
func FailedEnvelope(verbose string) Envelope {
	return Envelope{"status": 0, "status_verbose": verbose}
}

// NotFoundEnvelope reports that an object of the given kind and
// identifier does not exist, echoing the identifier under the kind key
func NotFoundEnvelope(id string, kind string) Envelope {
	return Envelope{
		"status":         0,
		"status_verbose": kind + " not found",
		kind:             id,
	}
}
