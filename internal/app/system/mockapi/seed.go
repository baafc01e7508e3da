package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the embedded fixture document.
func DefaultSeed() []byte { return defaultSeed }

type logTemplate struct {
	Method     string `yaml:"method"`
	Path       string `yaml:"path"`
	StatusCode int    `yaml:"statusCode"`
	DurationMs int    `yaml:"durationMs"`
	UserEmail  string `yaml:"userEmail"`
}

type seedDoc struct {
	Resources map[string][]map[string]any `yaml:",inline"`
	Templates []logTemplate               `yaml:"access-log-templates"`
	LogCount  int                         `yaml:"access-log-count"`
}

// loadSeed parses a fixture document into per-resource records. Records go
// through a JSON round trip so stored values have the same shapes as values
// decoded from request bodies.
func loadSeed(doc []byte, now time.Time) (map[string][]record, error) {
	var sd seedDoc
	if err := yaml.Unmarshal(doc, &sd); err != nil {
		return nil, fmt.Errorf("mockapi: parse seed: %w", err)
	}

	out := make(map[string][]record, len(sd.Resources))
	for name, items := range sd.Resources {
		recs := make([]record, 0, len(items))
		for i, it := range items {
			rec, err := toRecord(it)
			if err != nil {
				return nil, fmt.Errorf("mockapi: seed %s[%d]: %w", name, i, err)
			}
			normalizeActive(rec)
			recs = append(recs, rec)
		}
		out[name] = recs
	}

	if len(sd.Templates) > 0 {
		out["access-logs"] = generateAccessLogs(sd.Templates, sd.LogCount, out["users"], now)
	}
	return out, nil
}

func toRecord(v any) (record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// generateAccessLogs spreads count entries over the seven days before now,
// cycling through the templates. Output is deterministic for a given now.
func generateAccessLogs(tpls []logTemplate, count int, users []record, now time.Time) []record {
	if count <= 0 {
		count = len(tpls)
	}
	idByEmail := make(map[string]any, len(users))
	for _, u := range users {
		idByEmail[valueString(u["email"])] = u["id"]
	}

	ips := []string{"10.0.0.12", "10.0.0.31", "172.16.4.2", "192.168.1.20"}
	agents := []string{"Mozilla/5.0", "okhttp/4.12", "curl/8.5.0"}

	logs := make([]record, 0, count)
	for i := 0; i < count; i++ {
		t := tpls[i%len(tpls)]
		day := i % 7
		offset := time.Duration(day)*24*time.Hour + time.Duration((i*37)%(20*60))*time.Minute
		logs = append(logs, record{
			"id":         float64(i + 1),
			"userId":     idByEmail[t.UserEmail],
			"userEmail":  t.UserEmail,
			"method":     t.Method,
			"path":       t.Path,
			"statusCode": float64(t.StatusCode),
			"durationMs": float64(t.DurationMs + (i*7)%30),
			"ip":         ips[i%len(ips)],
			"userAgent":  agents[i%len(agents)],
			"createdAt":  now.Add(-offset).UTC().Format(time.RFC3339),
		})
	}
	return logs
}
