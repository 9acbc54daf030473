package repository

import (
	"github.com/jafarshop/storefront/internal/session"
)

// Repositories groups the persistent stores the server uses
type Repositories struct {
	Session session.Store
}
