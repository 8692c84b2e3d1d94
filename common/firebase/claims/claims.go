package claims

import (
	"context"

	"github.com/lvaman/genealogy/common/roles"
)

func IsAdmin(ctx context.Context) bool {
	claims, _ := ctx.Value("claims").(map[string]interface{})
	if claims != nil && claims[roles.ROLE_ADMIN] != nil {
		return claims[roles.ROLE_ADMIN].(bool)
	}
	return false
}

func IsViewer(ctx context.Context) bool {
	claims, _ := ctx.Value("claims").(map[string]interface{})
	if claims != nil && claims[roles.ROLE_VIEWER] != nil {
		return claims[roles.ROLE_VIEWER].(bool)
	}
	return false
}

func IsService(ctx context.Context) bool {
	claims, _ := ctx.Value("claims").(map[string]interface{})
	if claims != nil && claims[roles.ROLE_SERVICE] != nil {
		return claims[roles.ROLE_SERVICE].(bool)
	}
	return false
}

func GetUserId(ctx context.Context) string {
	claims, _ := ctx.Value("claims").(map[string]interface{})
	if claims != nil && claims["userId"] != nil {
		return claims["userId"].(string)
	}
	return ""
}

func GetEmail(ctx context.Context) string {
	claims, _ := ctx.Value("claims").(map[string]interface{})
	if claims != nil && claims["email"] != nil {
		return claims["email"].(string)
	}
	return ""
}
