// Package handlers implements the HTTP handlers of the local web UI.
//
// Every endpoint answers HTML for browsers and JSON when the request's Accept
// header asks for application/json.
package handlers
