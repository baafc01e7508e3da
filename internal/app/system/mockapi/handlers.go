package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefreshPath matches the console's refresh endpoint.
const RefreshPath = "/api/v1/auth/refresh-token"

// HealthPath answers without a token.
const HealthPath = "/api/v1/health"

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.intercept)

	r.Get(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": s.now().UTC().Format(time.RFC3339)})
	})
	r.Post(RefreshPath, s.refreshToken)

	for _, sp := range specs {
		name := sp.Name
		for _, p := range append([]string{sp.Path}, sp.Aliases...) {
			r.Route(p, func(rr chi.Router) {
				rr.Get("/", s.list(name))
				rr.Get("/{id}", s.get(name))
				if sp.ReadOnly {
					return
				}
				rr.Post("/", s.create(name))
				rr.Put("/{id}", s.update(name))
				rr.Delete("/{id}", s.remove(name))
				rr.Patch("/{id}/{action}", s.patch(name))
			})
		}
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "endpoint tidak ditemukan")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "metode tidak didukung")
	})
	return r
}

// intercept records the call, then applies latency, injected faults and the
// token check, in that order.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		latency := s.latency
		status := s.takeFault(r.Method)
		check := s.requireToken && r.URL.Path != RefreshPath && r.URL.Path != HealthPath
		s.mu.Unlock()

		s.log.Debug("mockapi request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")))

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeFailure(w, status, "kegagalan simulasi")
			return
		}
		if check {
			if err := s.verify(r); err != nil {
				writeFailure(w, http.StatusUnauthorized, err.Error())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Resource handlers                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (s *Server) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		c := s.cols[name]
		q := r.URL.Query()
		items := make([]record, 0, len(c.items))
		for _, it := range c.items {
			if matchesQuery(it, c.spec.Filters, q.Get) {
				items = append(items, s.present(c, it))
			}
		}
		env := c.spec.Envelope
		s.mu.Unlock()

		writeList(w, env, items)
	}
}

func (s *Server) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		c := s.cols[name]
		i, ok := c.find(chi.URLParam(r, "id"))
		var rec record
		if ok {
			rec = s.present(c, c.items[i])
		}
		s.mu.Unlock()

		if !ok {
			writeFailure(w, http.StatusNotFound, c.spec.Label+" tidak ditemukan")
			return
		}
		writeOne(w, c.spec.Envelope, http.StatusOK, rec, "OK")
	}
}

func (s *Server) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body record
		if err := decodeBody(r, &body); err != nil {
			writeFailure(w, http.StatusBadRequest, "body JSON tidak valid")
			return
		}
		normalizeActive(body)

		s.mu.Lock()
		c := s.cols[name]
		delete(body, "id")
		for k, v := range c.spec.Defaults {
			if _, ok := body[k]; !ok {
				body[k] = v
			}
		}
		if f := c.missing(body); f != "" {
			s.mu.Unlock()
			writeFailure(w, http.StatusUnprocessableEntity, f+" wajib diisi")
			return
		}
		if set := c.conflict(body, ""); set != nil {
			s.mu.Unlock()
			writeFailure(w, http.StatusConflict, strings.Join(set, "+")+" sudah digunakan")
			return
		}
		if c.spec.StringIDs {
			body["id"] = uuid.NewString()
		} else {
			body["id"] = float64(c.nextID)
			c.nextID++
		}
		ts := s.now().UTC().Format(time.RFC3339)
		body["createdAt"] = ts
		body["updatedAt"] = ts
		c.items = append(c.items, body)
		s.applyExclusive(c, body)
		out := s.present(c, body)
		s.mu.Unlock()

		writeOne(w, c.spec.Envelope, http.StatusCreated, out, c.spec.Label+" dibuat")
	}
}

func (s *Server) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body record
		if err := decodeBody(r, &body); err != nil {
			writeFailure(w, http.StatusBadRequest, "body JSON tidak valid")
			return
		}
		normalizeActive(body)
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		c := s.cols[name]
		i, ok := c.find(id)
		if !ok {
			s.mu.Unlock()
			writeFailure(w, http.StatusNotFound, c.spec.Label+" tidak ditemukan")
			return
		}
		merged := c.items[i].clone()
		for k, v := range body {
			if k == "id" || k == "createdAt" {
				continue
			}
			merged[k] = v
		}
		if f := c.missing(merged); f != "" {
			s.mu.Unlock()
			writeFailure(w, http.StatusUnprocessableEntity, f+" wajib diisi")
			return
		}
		if set := c.conflict(merged, id); set != nil {
			s.mu.Unlock()
			writeFailure(w, http.StatusConflict, strings.Join(set, "+")+" sudah digunakan")
			return
		}
		merged["updatedAt"] = s.now().UTC().Format(time.RFC3339)
		c.items[i] = merged
		s.applyExclusive(c, merged)
		out := s.present(c, merged)
		s.mu.Unlock()

		writeOne(w, c.spec.Envelope, http.StatusOK, out, c.spec.Label+" diperbarui")
	}
}

func (s *Server) remove(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		c := s.cols[name]
		i, ok := c.find(chi.URLParam(r, "id"))
		if ok {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		env := c.spec.Envelope
		s.mu.Unlock()

		if !ok {
			writeFailure(w, http.StatusNotFound, c.spec.Label+" tidak ditemukan")
			return
		}
		if env == bare {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": c.spec.Label + " dihapus"})
	}
}

// patch handles PATCH /{id}/{action}. The body may carry the new value
// under the field name or "value"; without one, status toggles and default
// is set.
func (s *Server) patch(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body record
		if err := decodeBody(r, &body); err != nil {
			writeFailure(w, http.StatusBadRequest, "body JSON tidak valid")
			return
		}
		normalizeActive(body)
		action := chi.URLParam(r, "action")

		s.mu.Lock()
		c := s.cols[name]
		field, ok := c.spec.Toggles[action]
		if !ok {
			s.mu.Unlock()
			writeFailure(w, http.StatusNotFound, "aksi tidak dikenal")
			return
		}
		i, ok := c.find(chi.URLParam(r, "id"))
		if !ok {
			s.mu.Unlock()
			writeFailure(w, http.StatusNotFound, c.spec.Label+" tidak ditemukan")
			return
		}
		rec := c.items[i]
		cur, _ := rec[field].(bool)
		next := action == "default" || !cur
		if v, ok := body[field].(bool); ok {
			next = v
		} else if v, ok := body["value"].(bool); ok {
			next = v
		}
		rec[field] = next
		rec["updatedAt"] = s.now().UTC().Format(time.RFC3339)
		s.applyExclusive(c, rec)
		out := s.present(c, rec)
		s.mu.Unlock()

		writeOne(w, c.spec.Envelope, http.StatusOK, out, c.spec.Label+" diperbarui")
	}
}

func (s *Server) applyExclusive(c *collection, rec record) {
	for field := range c.spec.Exclusive {
		if on, _ := rec[field].(bool); on {
			c.clearSiblings(rec, field)
		}
	}
}

// present returns the outgoing copy of rec with derived fields filled in.
// Callers hold s.mu.
func (s *Server) present(c *collection, rec record) record {
	out := rec.clone()
	if c.spec.Name == "roles" {
		n := 0
		slug := valueString(rec["slug"])
		for _, u := range s.cols["users"].items {
			if valueString(u["role"]) == slug {
				n++
			}
		}
		out["userCount"] = float64(n)
	}
	return out
}

func matchesQuery(rec record, fields []string, get func(string) string) bool {
	for _, f := range fields {
		want := get(f)
		if want == "" {
			continue
		}
		if !strings.EqualFold(valueString(rec[f]), want) {
			return false
		}
	}
	return true
}

// normalizeActive accepts "active" as a synonym for "isActive".
func normalizeActive(body record) {
	if v, ok := body["active"]; ok {
		if _, has := body["isActive"]; !has {
			body["isActive"] = v
		}
		delete(body, "active")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Encoding                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		if m, ok := dst.(*record); ok {
			*m = record{}
		}
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		if m, ok := dst.(*record); ok {
			*m = record{}
		}
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	if m, ok := dst.(*record); ok && *m == nil {
		*m = record{}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func writeList(w http.ResponseWriter, env envelope, items []record) {
	switch env {
	case wrapped:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": items, "message": "OK"})
	case dataOnly:
		writeJSON(w, http.StatusOK, map[string]any{"data": items})
	case paged:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"items": items, "total": len(items)},
		})
	default:
		writeJSON(w, http.StatusOK, items)
	}
}

func writeOne(w http.ResponseWriter, env envelope, status int, rec record, msg string) {
	switch env {
	case wrapped:
		writeJSON(w, status, map[string]any{"success": true, "data": rec, "message": msg})
	case dataOnly:
		writeJSON(w, status, map[string]any{"data": rec})
	case paged:
		writeJSON(w, status, map[string]any{"success": true, "data": rec})
	default:
		writeJSON(w, status, rec)
	}
}
