package authentication

import (
	"net/http"
)

// ServeTestAuthSuccess is the landing page of the local login flow. The
// page only echoes the token back so it can be pasted into API calls.
func ServeTestAuthSuccess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Signed in</title>
</head>
<body>
    <p>Signed in. Use the token from the login response as a bearer token.</p>
</body>
</html>`))
}
