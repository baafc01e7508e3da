// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/paging"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID        string
	Timestamp string
	Category  string
	EventType string
	Label     string
	Operator  string
	Subject   string
	Target    string // "roles #3"
	Request   string // "PUT /api/v1/roles/3"
	IP        string
	Success   bool
	Reason    string
}

// ListData is the view model for the audit log list page.
type ListData struct {
	viewdata.BaseVM

	Disabled bool
	Error    string
	Items    []listItem

	// Filters
	Category  string
	EventType string
	Resource  string
	StartDate string
	EndDate   string

	// Filter options
	Categories []option
	EventTypes []option

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Range      paging.Range
	Pages      []paging.Link
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

var categoryLabels = []option{
	{Value: audit.CategoryConnection, Label: "Koneksi"},
	{Value: audit.CategoryMutation, Label: "Perubahan data"},
}

var connectionEvents = []option{
	{Value: audit.EventConnected, Label: "Terhubung"},
	{Value: audit.EventConnectFailed, Label: "Gagal terhubung"},
	{Value: audit.EventDisconnected, Label: "Terputus"},
	{Value: audit.EventTokenRefresh, Label: "Token diperbarui"},
}

var mutationEvents = []option{
	{Value: audit.EventCreated, Label: "Dibuat"},
	{Value: audit.EventUpdated, Label: "Diubah"},
	{Value: audit.EventDeleted, Label: "Dihapus"},
	{Value: audit.EventStatusChanged, Label: "Status diubah"},
	{Value: audit.EventDefaultSet, Label: "Dijadikan utama"},
}

// eventTypesFor returns the event types of a category, or all of them when
// category is empty.
func eventTypesFor(category string) []option {
	switch category {
	case audit.CategoryConnection:
		return connectionEvents
	case audit.CategoryMutation:
		return mutationEvents
	case "":
		all := make([]option, 0, len(connectionEvents)+len(mutationEvents))
		all = append(all, connectionEvents...)
		return append(all, mutationEvents...)
	default:
		return nil
	}
}

// EventLabel returns the display label of an event type.
func EventLabel(eventType string) string {
	for _, o := range eventTypesFor("") {
		if o.Value == eventType {
			return o.Label
		}
	}
	return eventType
}

func selectOptions(opts []option, selected string) []option {
	out := make([]option, len(opts))
	for i, o := range opts {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}
