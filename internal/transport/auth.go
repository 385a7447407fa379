package transport

import "net/http"

// Auth adds credentials to an outgoing request.
type Auth func(req *http.Request)

// KeyInQuery sets the API key as the query parameter param.
// Conference Hall reads it from "key".
func KeyInQuery(param, key string) Auth {
	return func(req *http.Request) {
		if key == "" || req.URL == nil {
			return
		}
		q := req.URL.Query()
		q.Set(param, key)
		req.URL.RawQuery = q.Encode()
	}
}

// KeyInHeader sets the API key as the value of header.
func KeyInHeader(header, key string) Auth {
	return func(req *http.Request) {
		if key != "" {
			req.Header.Set(header, key)
		}
	}
}

// Bearer sends token in the Authorization header.
func Bearer(token string) Auth {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}
