package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSecret signs mock access tokens when Options.Secret is empty.
const DefaultSecret = "accessdeck-mock-signing-secret"

// IssueToken mints an access/refresh pair for the user with the given id.
// Claims carry the user's name, email and role.
func (s *Server) IssueToken(userID string) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID string) (models.TokenPair, error) {
	users := s.cols["users"]
	i, ok := users.find(userID)
	if !ok {
		return models.TokenPair{}, fmt.Errorf("mockapi: no user %q", userID)
	}
	u := users.items[i]

	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  valueString(u["name"]),
		"email": valueString(u["email"]),
		"role":  valueString(u["role"]),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"jti":   uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("mockapi: sign token: %w", err)
	}
	refresh := "rt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.refresh[refresh] = userID

	return models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.ttl / time.Second),
	}, nil
}

var errTokenInvalid = errors.New("token tidak valid")

// verify checks the bearer token on r against the signing secret.
func (s *Server) verify(r *http.Request) error {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || raw == "" {
		return errTokenInvalid
	}
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return errors.New("token kedaluwarsa")
		}
		return errTokenInvalid
	}
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshToken rotates a refresh token. The old token stops working.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		writeFailure(w, http.StatusUnprocessableEntity, "refreshToken wajib diisi")
		return
	}

	s.mu.Lock()
	userID, ok := s.refresh[req.RefreshToken]
	if !ok {
		s.mu.Unlock()
		writeFailure(w, http.StatusUnauthorized, "refresh token tidak valid")
		return
	}
	delete(s.refresh, req.RefreshToken)
	pair, err := s.issueLocked(userID)
	s.mu.Unlock()
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    pair,
		"message": "Token diperbarui",
	})
}
