package authentication

import (
	"context"
	"time"

	"github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/shared"

	"github.com/dgrijalva/jwt-go"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrTestAuthDisabled = errors.New("test authentication is disabled")
)

type Service interface {
	Authenticate(ctx context.Context, request AuthenticateTransport) (JwtToken, error)
}

// AuthenticationService issues locally signed session tokens so the viewer
// can be exercised without a Firebase project. Enabled by the test-auth
// configuration flag only, there is no password: the email must belong to a
// registered user and the token carries that user's roles.
type AuthenticationService struct {
	Store interface {
		GetUserByEmail(tx *gorm.DB, email string) (store.User, error)
	} `inject:""`
	Config *shared.AppConfig `inject:""`
}

type JwtToken struct {
	Token string `json:"token"`
}

type SessionClaims struct {
	UserId string   `json:"userId" mapstructure:"userId"`
	Email  string   `json:"email" mapstructure:"email"`
	Roles  []string `json:"roles" mapstructure:"roles"`
	jwt.StandardClaims
}

func (s *AuthenticationService) Authenticate(ctx context.Context, request AuthenticateTransport) (JwtToken, error) {
	if !s.Config.TestAuthMode {
		return JwtToken{}, ErrTestAuthDisabled
	}

	user, err := s.Store.GetUserByEmail(nil, request.Email)
	if err != nil {
		return JwtToken{}, errors.Wrap(err, "login failed")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserId: user.UserId.String,
		Email:  user.Email.String,
		Roles:  user.Roles.ToList(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().UTC().Unix() + 60*60*6, // 6 hours validity
			IssuedAt:  time.Now().UTC().Unix(),
		},
	})
	tokenString, err := token.SignedString([]byte(s.Config.TestAuthSecret))
	if err != nil {
		return JwtToken{}, err
	}
	return JwtToken{Token: tokenString}, nil
}
