package app

import "senderkey/internal/domain"

// App is the set of services commands run against.
type App struct {
	IDs    domain.IdentityService
	Groups domain.GroupService
}

// New returns an App over ids and groups.
func New(ids domain.IdentityService, groups domain.GroupService) *App {
	return &App{
		IDs:    ids,
		Groups: groups,
	}
}
