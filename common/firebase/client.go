package firebase

import (
	"context"

	"firebase.google.com/go/auth"
)

// Client wraps the firebase auth client. The inner client is set during
// startup when firebase auth is enabled, it stays nil in test-auth mode.
type Client struct {
	FirebaseClient *auth.Client
}

func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	return c.FirebaseClient.DeleteUser(ctx, uid)
}

func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return c.FirebaseClient.VerifyIDToken(ctx, idToken)
}

func (c *Client) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	return c.FirebaseClient.GetUser(ctx, uid)
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	return c.FirebaseClient.GetUserByEmail(ctx, email)
}

func (c *Client) SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error {
	return c.FirebaseClient.SetCustomUserClaims(ctx, uid, customClaims)
}
