package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
)

var errUnexpectedFormat = errors.New("unexpected result format")

// convertSurrealID renders a SurrealDB record id as "table:id"
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "user", "id": {"String": "demo"}} or similar
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		idPart := ""
		if idVal, ok := v["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := v["ID"]; ok {
			idPart = extractIDValue(idVal)
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		return idPart
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", id)
}

// recordIDs turns "table:id" strings into record ids so membership tests
// compare records rather than their rendered form, which SurrealDB escapes
// with ⟨⟩ for ids such as UUIDs. Ids without a table are taken as users.
func recordIDs(ids []string) []*models.RecordID {
	out := make([]*models.RecordID, 0, len(ids))
	for _, id := range ids {
		table, key, ok := strings.Cut(id, ":")
		if !ok {
			table, key = "user", id
		}
		if table == "" || key == "" {
			continue
		}
		rid := models.NewRecordID(table, key)
		out = append(out, &rid)
	}
	return out
}

func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
		if s, ok := m["string"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// statementRecords flattens the records returned by the first statement of
// a Query call
func statementRecords(results []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)
	if len(results) == 0 {
		return records
	}

	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if _, wrapped := resp["status"]; wrapped {
			first = resp["result"]
		}
	}

	switch v := first.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, m)
			}
		}
	case map[string]interface{}:
		records = append(records, v)
	}
	return records
}

// asRecord unwraps a QueryOne result into a record map
func asRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errUnexpectedFormat
	}
	return data, nil
}

// parseTime parses time from the formats the driver may hand back
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// getIntPtr extracts an optional integer value from a map
func getIntPtr(m map[string]interface{}, key string) *int {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	var n int
	switch c := v.(type) {
	case float64:
		n = int(c)
	case float32:
		n = int(c)
	case int:
		n = c
	case int64:
		n = int(c)
	case uint64:
		n = int(c)
	default:
		return nil
	}
	return &n
}

// getFloat extracts a numeric value from a map as float64
func getFloat(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts an optional time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	t := parseTime(m[key])
	if t.IsZero() {
		return nil
	}
	return &t
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	if v, ok := m[key].([]interface{}); ok {
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
