package roles

const (
	ROLE_ADMIN   = "admin"
	ROLE_VIEWER  = "viewer"
	ROLE_SERVICE = "service"

	// in-cluster requests mark themselves with this header
	ROLE_REQUEST_HEADER = "X-Genealogy-Role"
)
