// internal/app/features/connect/handler.go
//
// Package connect is the console sign-in: the operator pastes a backend
// token pair, which is kept in the session cookie and attached to every
// backend call.
package connect

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/auditlog"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/htmlsanitize"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// DefaultReturn is where a successful connect lands without ?return=.
const DefaultReturn = "/analytics"

type Handler struct {
	Client     *apiclient.Client
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// PasswordHash is the bcrypt hash of the operator passphrase. Empty
	// means no passphrase is asked for.
	PasswordHash string
	// Demo returns the mock backend's token pair. Nil outside mock mode.
	Demo func() models.TokenPair
	Now  func() time.Time

	Render uierrors.RenderFunc
}

func NewHandler(client *apiclient.Client, sm *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, passwordHash string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:       client,
		SessionMgr:   sm,
		AuditLog:     audit,
		ErrLog:       errLog,
		Log:          logger,
		PasswordHash: passwordHash,
		Now:          time.Now,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// FormData is the connect page.
type FormData struct {
	viewdata.BaseVM
	Error          string
	Operator       string
	ReturnURL      string
	NeedPassphrase bool
	DemoAvailable  bool
	DemoMasked     string
}

// StatusData is the page shown while connected.
type StatusData struct {
	viewdata.BaseVM
	Error      string
	Notice     string
	Subject    string
	Email      string
	Expired    bool
	CanRefresh bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /connect                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeConnect shows the token form, or the connection status when the
// operator is already connected.
func (h *Handler) ServeConnect(w http.ResponseWriter, r *http.Request) {
	if c, ok := auth.CurrentConnection(r); ok {
		h.renderStatus(w, r, c, query.Get(r, "notice"), "")
		return
	}
	h.renderForm(w, r, "", "", query.Get(r, "return"))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, msg, operator, ret string) {
	data := FormData{
		BaseVM:         viewdata.NewBaseVM(r, "Sambungkan", "/"),
		Error:          msg,
		Operator:       operator,
		ReturnURL:      ret,
		NeedPassphrase: h.PasswordHash != "",
	}
	if h.Demo != nil {
		data.DemoAvailable = true
		data.DemoMasked = format.MaskToken(h.Demo().AccessToken)
	}
	h.Render(w, r, "connect_form", data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, c *auth.Connection, notice, msg string) {
	h.Render(w, r, "connect_status", StatusData{
		BaseVM:     viewdata.NewBaseVM(r, "Koneksi", DefaultReturn),
		Error:      msg,
		Notice:     notice,
		Subject:    c.Claims.Subject,
		Email:      c.Claims.Email,
		Expired:    !c.Expiry.IsZero() && !c.Expiry.After(h.Now()),
		CanRefresh: c.RefreshToken != "",
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /connect                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleConnect stores the pasted token pair in the session.
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Form tidak valid.", auth.ConnectPath)
		return
	}
	operator := htmlsanitize.Plain(r.PostFormValue("operator"))
	ret := strings.TrimSpace(r.PostFormValue("return"))
	access := strings.TrimSpace(r.PostFormValue("access_token"))
	refresh := strings.TrimSpace(r.PostFormValue("refresh_token"))

	if r.PostFormValue("demo") == "1" && h.Demo != nil {
		pair := h.Demo()
		access, refresh = pair.AccessToken, pair.RefreshToken
	}

	fail := func(reason, msg string) {
		h.AuditLog.ConnectFailed(r.Context(), r, operator, reason)
		h.renderForm(w, r, msg, operator, ret)
	}

	if h.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(r.PostFormValue("passphrase"))); err != nil {
			fail("bad_passphrase", "Frasa sandi salah.")
			return
		}
	}
	if access == "" {
		fail("missing_token", "Token akses wajib diisi.")
		return
	}

	conn := auth.Connection{Operator: operator, AccessToken: access, RefreshToken: refresh}
	if claims, err := auth.DecodeClaims(access); err == nil {
		conn.Claims = claims
		conn.Expiry = claims.ExpiresAt
	} else {
		h.Log.Debug("access token is not a JWT", zap.Error(err))
	}
	if !conn.Expiry.IsZero() && !conn.Expiry.After(h.Now()) && refresh == "" {
		fail("token_expired", "Token akses sudah kedaluwarsa dan tidak ada refresh token.")
		return
	}

	if err := h.SessionMgr.Save(w, r, conn); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Sesi tidak dapat disimpan.", auth.ConnectPath)
		return
	}
	h.AuditLog.Connected(r.Context(), r, conn)
	h.Log.Info("operator connected", zap.String("operator", conn.DisplayName()), zap.String("role", conn.Claims.Role))

	redirect(w, r, urlutil.SafeReturn(ret, "", DefaultReturn))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /connect/refresh                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRefresh exchanges the stored refresh token for a new pair.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	c, ok := auth.CurrentConnection(r)
	if !ok {
		redirect(w, r, auth.ConnectPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "token refresh")
	defer cancel()

	tok, err := h.refresh(ctx, c.RefreshToken)
	h.AuditLog.TokenRefreshed(r.Context(), r, err)
	if err != nil {
		h.Log.Warn("token refresh failed", zap.Error(err))
		h.renderStatus(w, r, c, "", "Gagal memperbarui token: "+apiclient.UserMessage(err))
		return
	}

	next := *c
	next.AccessToken = tok.AccessToken
	next.RefreshToken = tok.RefreshToken
	next.Expiry = tok.Expiry
	if claims, err := auth.DecodeClaims(tok.AccessToken); err == nil {
		next.Claims = claims
		if next.Expiry.IsZero() {
			next.Expiry = claims.ExpiresAt
		}
	}
	if err := h.SessionMgr.Save(w, r, next); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Sesi tidak dapat disimpan.", auth.ConnectPath)
		return
	}
	redirect(w, r, auth.ConnectPath+"?notice=refreshed")
}

func (h *Handler) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, apiclient.ErrNoRefreshToken
	}
	return h.Client.RefreshSource(ctx, refreshToken).Token()
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /connect/disconnect                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDisconnect forgets the token pair.
func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.AuditLog.Disconnected(r.Context(), r)
	if err := h.SessionMgr.Clear(w, r); err != nil {
		h.Log.Error("clear session failed", zap.Error(err))
	}
	redirect(w, r, auth.ConnectPath)
}

func redirect(w http.ResponseWriter, r *http.Request, dest string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
