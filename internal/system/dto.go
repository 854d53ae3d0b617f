package system

import (
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

var PreferenceSort = pagination.Sort{
	Columns:      []string{"id", "key", "updated_at"},
	DefaultBy:    "key",
	DefaultOrder: pagination.Asc,
}

var AuditSort = pagination.Sort{
	Columns:      []string{"id", "created_at", "action", "resource", "admin_user_id"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Desc,
}

// AuditFilter narrows audit rows; zero values match everything.
type AuditFilter struct {
	AdminUserID *int64
	Resource    string
}

// DatabaseStatus reports store connectivity for operators.
type DatabaseStatus struct {
	Healthy  bool            `json:"healthy"`
	Database DatabaseProbe   `json:"database"`
	Redis    DependencyProbe `json:"redis"`
	Errors   []string        `json:"errors"`
}

type DatabaseProbe struct {
	Connected bool             `json:"connected"`
	Dialect   string           `json:"dialect"`
	LatencyMS int64            `json:"latency_ms"`
	Tables    map[string]int64 `json:"tables"`
}

type DependencyProbe struct {
	Configured bool  `json:"configured"`
	Connected  bool  `json:"connected"`
	LatencyMS  int64 `json:"latency_ms"`
}
