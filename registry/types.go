package registry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/ausbin/core"
)

// Register columns with dedicated fields on core.BusinessName.
const (
	columnName         = "BN_NAME"
	columnStatus       = "BN_STATUS"
	columnState        = "BN_STATE"
	columnRegDate      = "BN_REG_DT"
	columnRenewalDate  = "BN_RENEWAL_DT"
	columnCancelDate   = "BN_CANCEL_DT"
	columnDatastoreRow = "_id"
)

// SearchRequest describes one datastore_search call.
type SearchRequest struct {
	// Query is the CKAN full-text query. Empty means all records.
	Query string

	// Filters restricts results to rows whose column equals the given value.
	Filters map[string]string

	// Limit caps the number of returned records. Zero applies the config
	// default; negative requests everything the API will serve.
	Limit int

	// Offset skips the first N records.
	Offset int
}

// SearchResult is the decoded payload of one datastore_search call.
type SearchResult struct {
	Records []*core.BusinessName
	Total   int
}

// ckanEnvelope is the common CKAN response wrapper.
type ckanEnvelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

// datastoreResult is the result payload of datastore_search.
type datastoreResult struct {
	Records []map[string]any `json:"records"`
	Total   int              `json:"total"`
}

// resourceInfo is the result payload of resource_show.
type resourceInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Format       string `json:"format"`
	LastModified string `json:"last_modified"`
}

// dateLayouts are tried in order when parsing register date columns.
// The register publishes both ISO and day-first forms.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// parseDate parses a register date leniently. Unparseable or empty values
// yield the zero time, never an error.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// stringValue renders a raw datastore cell as text.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// recordFromRow converts one datastore row into a BusinessName.
// Unknown columns are preserved in Fields; the ID is content-derived so
// re-fetching the dataset produces stable identifiers.
func recordFromRow(row map[string]any, fetchedAt time.Time) *core.BusinessName {
	record := &core.BusinessName{
		FetchedAt: fetchedAt,
	}

	for column, value := range row {
		text := stringValue(value)
		switch column {
		case columnName:
			record.Name = text
		case columnStatus:
			record.Status = text
		case columnState:
			record.State = text
		case columnRegDate:
			record.RegistrationDate = parseDate(text)
		case columnRenewalDate:
			record.RenewalDate = parseDate(text)
		case columnCancelDate:
			record.CancelDate = parseDate(text)
		case columnDatastoreRow:
			// Row numbers change between fetches; not worth keeping.
		default:
			if record.Fields == nil {
				record.Fields = make(map[string]string)
			}
			record.Fields[column] = text
		}
	}

	record.Id = core.IDFromContent(record.ContentKey())
	return record
}
