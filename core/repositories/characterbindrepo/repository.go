// This file is only generated if it doesn't already exist.
// Once created, you can customize this file freely - it will NOT be overwritten.

package characterbindrepo

import (
	"context"

	"github.com/jrazmi/repogen/core/scaffolding/baserepo"
)

// Repository provides access to character_bind. It embeds BaseRepository for the
// generated operations; add queries the base operations do not cover below.
type Repository struct {
	BaseRepository
}

// NewRepository returns a CharacterBind repository.
func NewRepository() Repository {
	return Repository{}
}

// FindByZone returns the binds located in zoneID.
func (r Repository) FindByZone(ctx context.Context, db baserepo.Engine, zoneID uint16) ([]CharacterBind, error) {
	return r.GetWhere(ctx, db, baserepo.Unchecked("zone_id = ? ORDER BY id", zoneID))
}

// HomeCount returns how many binds are marked as a home point.
func (r Repository) HomeCount(ctx context.Context, db baserepo.Engine) (int64, error) {
	return r.Count(ctx, db, baserepo.Unchecked("is_home = 1"))
}
