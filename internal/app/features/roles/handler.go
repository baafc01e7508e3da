package roles

import (
	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// NewHandler constructs the roles handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.Role] {
	return crud.NewHandler(api, Definition(), deps)
}
