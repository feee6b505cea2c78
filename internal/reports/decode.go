package reports

import (
	"bytes"
	"encoding/json"

	"ospireports/lib/htmlutil"
)

const snippetLength = 120

func snippet(body []byte) string {
	if htmlutil.LooksLikeHTML(body) {
		summary, err := htmlutil.Summarize(body, snippetLength)
		if err == nil && summary != "" {
			return summary
		}
	}
	return htmlutil.Truncate(string(bytes.TrimSpace(body)), snippetLength)
}

// decodeJSON decodes `body` into T. the endpoints behind the cors proxy
// sometimes return their json serialized a second time as a json string,
// in that case the string contents are decoded again.
func decodeJSON[T any](body []byte) (T, error) {
	var out T

	var raw json.RawMessage
	err := json.Unmarshal(body, &raw)
	if err != nil {
		return out, &DecodeError{Snippet: snippet(body), Err: err}
	}

	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		err = json.Unmarshal(raw, &inner)
		if err != nil {
			return out, &DecodeError{Snippet: snippet(body), Err: err}
		}
		raw = json.RawMessage(inner)
	}

	err = json.Unmarshal(raw, &out)
	if err != nil {
		return out, &DecodeError{Snippet: snippet(raw), Err: err}
	}
	return out, nil
}
