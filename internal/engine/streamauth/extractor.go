package streamauth

import "strings"

// Request is the payload MediaMTX posts to the external auth hook. Protocol
// and IP are informational; the decision depends only on the action and the
// credential carriers.
type Request struct {
	Action   string `json:"action"`
	Path     string `json:"path"`
	Protocol string `json:"protocol"`
	Query    string `json:"query"`
	User     string `json:"user"`
	Password string `json:"password"`
	IP       string `json:"ip"`
}

const queryMarker = "api_key="

// ExtractKey locates the candidate stream key. Carriers are checked in fixed
// priority order: an api_key= assignment in the query string wins, then the
// username, then the password, the latter two only when they start with the
// issued-key prefix marker (that is what separates keys from human RTSP
// usernames). A query string that contains the marker claims the request even
// if its value is empty; there is no fallback to the other carriers then.
func ExtractKey(req *Request, prefix string) (string, bool) {
	if i := strings.Index(req.Query, queryMarker); i >= 0 {
		value := req.Query[i+len(queryMarker):]
		if j := strings.IndexByte(value, '&'); j >= 0 {
			value = value[:j]
		}
		return value, value != ""
	}

	if req.User != "" && strings.HasPrefix(req.User, prefix) {
		return req.User, true
	}
	if req.Password != "" && strings.HasPrefix(req.Password, prefix) {
		return req.Password, true
	}

	return "", false
}
