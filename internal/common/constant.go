package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
// Both a raw token and the "Bearer <token>" form are accepted.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is stripped from the Authorization header when present.
const BearerPrefix = "Bearer "

const (
	// ContentTypeCSV is the only content type accepted for uploaded files.
	ContentTypeCSV = "text/csv"
	// ContentTypeJSON is used for analysis input records and API responses.
	ContentTypeJSON = "application/json"
)
