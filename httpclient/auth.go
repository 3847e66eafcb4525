package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends an Authorization: Bearer header. The usual mode
	// for session-token APIs.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends a key in a header or query parameter, the way
	// gateway-fronted APIs expect their project keys.
	AuthAPIKey
	// AuthCustom hands the request to a caller-supplied function.
	AuthCustom
)

// AuthConfig describes how to authenticate a request. The client-level
// config applies to every request; Request.Auth overrides it per call,
// which is how a host swaps in a fresh token after refresh without
// rebuilding the client.
type AuthConfig struct {
	// Type selects the method; the other fields feed whichever method
	// is selected.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password feed basic auth (AuthBasic).
	Username string
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In places the key: "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name (AuthAPIKey).
	// Defaults to "X-API-Key".
	Name string
	// Apply mutates the outgoing request directly (AuthCustom).
	Apply func(*http.Request)
}

// defaultAPIKeyHeader is where API keys land unless Name says otherwise.
const defaultAPIKeyHeader = "X-API-Key"

// BearerAuth builds a bearer token config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth builds a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth builds an API key config using the default X-API-Key
// header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: defaultAPIKeyHeader}
}

// APIKeyAuthHeader builds an API key config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery builds an API key config sent as a query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth builds a config that applies fn to each request.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// apply stamps the credentials onto req. Nil configs and AuthNone do
// nothing.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		a.applyKey(req)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}

func (a *AuthConfig) applyKey(req *http.Request) {
	name := a.Name
	if name == "" {
		name = defaultAPIKeyHeader
	}
	switch a.In {
	case "query":
		q := req.URL.Query()
		q.Set(name, a.Key)
		req.URL.RawQuery = q.Encode()
	default:
		req.Header.Set(name, a.Key)
	}
}
