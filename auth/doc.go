// Package auth issues and verifies HMAC-signed bearer tokens for the HTTP API.
//
// Authentication is off by default. When enabled, every /api route requires
// an Authorization header carrying a token produced by Service.Generate
// (the CLI exposes this as "diarsplit token"):
//
//	auth:
//	  enabled: true
//	  secret: "${AUTH_SECRET}"
//	  token_ttl: "1h"
package auth
