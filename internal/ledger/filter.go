package ledger

import (
	"fmt"
	"strings"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"
)

// Filter selects ledger entries. Zero fields match everything.
// Year, Month and Day narrow Date by prefix; DateFrom and DateTo are inclusive bounds.
type Filter struct {
	Username  string
	Kind      domain.EntryKind
	Method    domain.Method
	GameName  string
	PlayerTag string
	Year      int
	Month     int
	Day       int
	DateFrom  string
	DateTo    string
	Pending   *bool
}

func (f Filter) Validate() error {
	if f.Kind != "" && !f.Kind.Valid() {
		return domain.Invalid("type", "unknown entry type %q", f.Kind)
	}
	if f.Method != "" && !f.Method.Valid() {
		return domain.Invalid("method", "unknown method %q", f.Method)
	}
	if f.Year < 0 || f.Year > 9999 {
		return domain.Invalid("year", "out of range")
	}
	if f.Month != 0 {
		if f.Month < 1 || f.Month > 12 {
			return domain.Invalid("month", "must be between 1 and 12")
		}
		if f.Year == 0 {
			return domain.Invalid("month", "requires year")
		}
	}
	if f.Day != 0 {
		if f.Day < 1 || f.Day > 31 {
			return domain.Invalid("day", "must be between 1 and 31")
		}
		if f.Month == 0 {
			return domain.Invalid("day", "requires month")
		}
	}
	for field, v := range map[string]string{"dateFrom": f.DateFrom, "dateTo": f.DateTo} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, v); err != nil {
			return domain.Invalid(field, "must be YYYY-MM-DD")
		}
	}
	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return domain.Invalid("dateFrom", "must not be after dateTo")
	}
	return nil
}

// DatePrefix is the Date prefix selected by Year, Month and Day: "2024", "2024-08" or "2024-08-05".
func (f Filter) DatePrefix() string {
	if f.Year == 0 {
		return ""
	}
	prefix := fmt.Sprintf("%04d", f.Year)
	if f.Month == 0 {
		return prefix
	}
	prefix += fmt.Sprintf("-%02d", f.Month)
	if f.Day == 0 {
		return prefix
	}
	return prefix + fmt.Sprintf("-%02d", f.Day)
}

// Match reports whether e passes every set field of f.
func (f Filter) Match(e *models.GameEntry) bool {
	if f.Username != "" && e.Username != f.Username {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Method != "" && e.Method != f.Method {
		return false
	}
	if f.GameName != "" && e.GameName != f.GameName {
		return false
	}
	if f.PlayerTag != "" && e.PlayerTag != f.PlayerTag {
		return false
	}
	if p := f.DatePrefix(); p != "" && !strings.HasPrefix(e.Date, p) {
		return false
	}
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}
	if f.Pending != nil && e.IsPending != *f.Pending {
		return false
	}
	return true
}
