package authentication

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/roles"
	"github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/shared"

	"firebase.google.com/go/auth"
	"github.com/dgrijalva/jwt-go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Authenticator struct {
	FirebaseClient interface {
		VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
		GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
		SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	} `inject:""`
	UserService interface {
		GetUserByEmail(ctx context.Context, email string) (store.User, error)
	} `inject:""`
	Config *shared.AppConfig `inject:""`
	Logger *log.Logger       `inject:""`
}

// Roles gates a handler on the claims set by the authentication middleware.
func Roles(next http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, ok := req.Context().Value("claims").(map[string]interface{})
		if !ok || !hasRole(allowed, claims) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (f *Authenticator) Roles(next http.Handler, allowed ...string) http.Handler {
	return Roles(next, allowed...)
}

// Middleware picks the token verifier matching the deployment: locally
// issued session tokens in test-auth mode, Firebase id tokens otherwise.
func (f *Authenticator) Middleware(next http.Handler, excludePath []string) http.Handler {
	if f.Config.TestAuthMode {
		return f.Local(next, excludePath)
	}
	return f.Firebase(next, excludePath)
}

func (f *Authenticator) Firebase(next http.Handler, excludePath []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for _, path := range excludePath {
			if req.RequestURI == path {
				next.ServeHTTP(w, req)
				return
			}
		}

		if f.serveAsService(next, w, req) {
			return
		}

		ctx := req.Context()
		bearer, err := bearerToken(req)
		if err != nil {
			shared.HttpError(w, shared.NewError(err.Error()), http.StatusBadRequest)
			return
		}

		token, err := f.FirebaseClient.VerifyIDToken(ctx, bearer)
		if err != nil {
			shared.HttpError(w, shared.NewError(fmt.Sprintf("invalid authorization token: %s", err.Error())), http.StatusBadRequest)
			return
		}

		firebaseUser, err := f.FirebaseClient.GetUser(ctx, token.UID)
		if err != nil {
			shared.HttpError(w, shared.NewError(fmt.Sprintf("failed to retrieve user from firebase: %s", err.Error())), http.StatusBadRequest)
			return
		}

		if !hasAtLeastOneRole(firebaseUser.CustomClaims) {
			// first login: map the firebase identity onto a registered user
			user, err := f.UserService.GetUserByEmail(ctx, firebaseUser.Email)
			if err != nil {
				shared.HttpError(w, shared.NewError(fmt.Sprintf("user not registered: %s", err.Error())), http.StatusForbidden)
				return
			}

			claims := claimsForUser(user)
			if err = f.FirebaseClient.SetCustomUserClaims(ctx, firebaseUser.UID, claims); err != nil {
				shared.HttpError(w, shared.NewError(err.Error()), http.StatusInternalServerError)
				return
			}
			firebaseUser.CustomClaims = claims
		}

		req = req.WithContext(context.WithValue(ctx, "claims", firebaseUser.CustomClaims))
		next.ServeHTTP(w, req)
	})
}

// Local validates session tokens issued by the test-auth login endpoint.
func (f *Authenticator) Local(next http.Handler, excludePath []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for _, path := range excludePath {
			if req.RequestURI == path {
				next.ServeHTTP(w, req)
				return
			}
		}

		if f.serveAsService(next, w, req) {
			return
		}

		bearer, err := bearerToken(req)
		if err != nil {
			shared.HttpError(w, shared.NewError(err.Error()), http.StatusBadRequest)
			return
		}

		token, err := jwt.Parse(bearer, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected token signing method")
			}
			return []byte(f.Config.TestAuthSecret), nil
		})
		if err != nil {
			shared.HttpError(w, shared.NewError(err.Error()), http.StatusBadRequest)
			return
		}
		if !token.Valid {
			shared.HttpError(w, shared.NewError("invalid authorization token"), http.StatusBadRequest)
			return
		}

		var session SessionClaims
		if err := mapstructure.Decode(map[string]interface{}(token.Claims.(jwt.MapClaims)), &session); err != nil {
			shared.HttpError(w, shared.NewError(err.Error()), http.StatusBadRequest)
			return
		}

		claims := map[string]interface{}{
			"userId":           session.UserId,
			"email":            session.Email,
			roles.ROLE_ADMIN:   false,
			roles.ROLE_VIEWER:  false,
			roles.ROLE_SERVICE: false,
		}
		for _, role := range session.Roles {
			claims[role] = true
		}

		req = req.WithContext(context.WithValue(req.Context(), "claims", claims))
		next.ServeHTTP(w, req)
	})
}

// serveAsService admits in-cluster callers that mark themselves with the
// role request header. Off unless the deployment says the network boundary
// makes that header trustworthy.
func (f *Authenticator) serveAsService(next http.Handler, w http.ResponseWriter, req *http.Request) bool {
	if !f.Config.TrustServiceHeader || req.Header.Get(roles.ROLE_REQUEST_HEADER) != roles.ROLE_SERVICE {
		return false
	}

	claims := map[string]interface{}{
		"userId":           "",
		"email":            "",
		roles.ROLE_ADMIN:   false,
		roles.ROLE_VIEWER:  false,
		roles.ROLE_SERVICE: true,
	}
	req = req.WithContext(context.WithValue(req.Context(), "claims", claims))
	next.ServeHTTP(w, req)
	return true
}

func bearerToken(req *http.Request) (string, error) {
	authorizationHeader := req.Header.Get("authorization")
	if authorizationHeader == "" {
		return "", errors.New("invalid authorization token")
	}
	parts := strings.Split(authorizationHeader, " ")
	if len(parts) != 2 {
		return "", errors.New("invalid authorization token")
	}
	return parts[1], nil
}

func claimsForUser(user store.User) map[string]interface{} {
	claims := map[string]interface{}{
		"userId":           user.UserId.String,
		"email":            user.Email.String,
		roles.ROLE_ADMIN:   false,
		roles.ROLE_VIEWER:  false,
		roles.ROLE_SERVICE: false,
	}
	for _, role := range user.Roles.ToList() {
		claims[role] = true
	}
	return claims
}

func hasAtLeastOneRole(claims map[string]interface{}) bool {
	for _, role := range []string{roles.ROLE_ADMIN, roles.ROLE_VIEWER, roles.ROLE_SERVICE} {
		if granted, ok := claims[role]; ok && granted.(bool) {
			return true
		}
	}
	return false
}

func hasRole(allowed []string, claims map[string]interface{}) bool {
	for _, role := range allowed {
		if granted, ok := claims[role]; ok {
			if granted.(bool) {
				return true
			}
		}
	}
	return false
}
