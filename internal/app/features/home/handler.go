package home

import (
	"net/http"

	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the console root.
type Handler struct {
	Landing string // where connected operators go
	Log     *zap.Logger
}

func NewHandler(landing string, logger *zap.Logger) *Handler {
	return &Handler{
		Landing: landing,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends connected operators to the landing page and everyone
// else to the connect screen.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentConnection(r); ok {
		http.Redirect(w, r, h.Landing, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, auth.ConnectPath, http.StatusSeeOther)
}
