// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// and request parameters. These constants ensure consistent API patterns and URL
// structure throughout the application, making the API more predictable and easier
// to maintain.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
// These constants are used when defining routes with path parameters and
// when extracting those parameters from requests.
const (
	// ParamBookID is the URL parameter for book identifiers.
	ParamBookID = "bookID"

	// ParamAuthorID is the URL parameter for author identifiers.
	ParamAuthorID = "authorID"

	// ParamCategoryID is the URL parameter for category identifiers.
	ParamCategoryID = "categoryID"

	// ParamID is the URL parameter for generic resource identifiers.
	ParamID = "id"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamPage is the query parameter for pagination page number.
	QueryParamPage = "page"

	// QueryParamPageSize is the query parameter for pagination page size.
	QueryParamPageSize = "page_size"

	// QueryParamToken is the query parameter carrying a password reset token.
	QueryParamToken = "token"

	// QueryParamLoginError is the query flag set after a failed login attempt.
	QueryParamLoginError = "loginError"
)
