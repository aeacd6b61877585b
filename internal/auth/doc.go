// Package auth handles the identity-provider side of a streaming session.
//
// It contains three pieces:
//
//  1. [TokenStore] : the single holder of the current [Credential] and the
//     [PlayerConfig] derived from it. Credentials are replaced wholesale on
//     re-authentication and never partially updated.
//  2. Provider response parsing: [ParseResult] turns a completion signal
//     (numeric result code plus an opaque payload) into a typed [Response].
//  3. The login flow: [Flow] abstracts the provider's login UI. [BrowserFlow]
//     opens the authorization page in the system browser and [CallbackHandler]
//     receives the redirect on a local HTTP server, exchanging the
//     authorization code for a bearer token via [oauth2].
package auth
