// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/paging"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"go.uber.org/zap"
)

const pageSize = 50

/*─────────────────────────────────────────────────────────────────────────────*
| GET /audit – event list                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList displays recorded audit events with filtering, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	resource := strings.TrimSpace(q.Get("resource"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	data := ListData{
		BaseVM:     viewdata.NewBaseVM(r, "Riwayat Audit", "/analytics"),
		Category:   category,
		EventType:  eventType,
		Resource:   resource,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: selectOptions(categoryLabels, category),
		EventTypes: selectOptions(eventTypesFor(category), eventType),
		Page:       1,
		TotalPages: 1,
	}

	if h.Store == nil {
		data.Disabled = true
		h.Render(w, r, "audit_list", data)
		return
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Resource:  resource,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Riwayat audit tidak dapat dimuat.", "/analytics")
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Warn("count audit events failed", zap.Error(err))
		total = int64(filter.Offset) + int64(len(events))
	}

	for _, e := range events {
		data.Items = append(data.Items, toItem(e))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	data.Page = page
	data.TotalPages = totalPages
	data.Total = total
	data.Range = paging.ComputeRange(page, pageSize, len(events))
	data.Pages = paging.Links(page, totalPages, 2)
	data.HasPrev = page > 1
	data.HasNext = page < totalPages
	data.PrevPage = max(1, page-1)
	data.NextPage = min(totalPages, page+1)

	h.Render(w, r, "audit_list", data)
}

func toItem(e audit.Event) listItem {
	item := listItem{
		ID:        e.ID.Hex(),
		Timestamp: format.DateTime(e.Timestamp),
		Category:  e.Category,
		EventType: e.EventType,
		Label:     EventLabel(e.EventType),
		Operator:  e.Operator,
		Subject:   e.Subject,
		IP:        e.IP,
		Success:   e.Success,
		Reason:    e.FailureReason,
	}
	if e.Resource != "" {
		item.Target = e.Resource
		if e.ResourceID != "" {
			item.Target += " #" + e.ResourceID
		}
	}
	if e.Method != "" {
		item.Request = e.Method + " " + e.Path
	}
	return item
}
