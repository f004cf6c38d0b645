package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction. A nil
// Tx tells a repo to run against its base connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
