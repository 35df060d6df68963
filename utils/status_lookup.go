package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fund-admin-gateway/models"
)

const (
	// Canonical status codes mirror application_status.status_code.
	StatusCodePending         = "0" // อยู่ระหว่างการพิจารณา
	StatusCodeApproved        = "1" // อนุมัติ
	StatusCodeRejected        = "2" // ปฏิเสธ
	StatusCodeNeedsMoreInfo   = "3" // ต้องการข้อมูลเพิ่มเติม
	StatusCodeDraft           = "4" // ร่าง
	StatusCodeDeptHeadPending = "5" // อยู่ระหว่างการพิจารณาจากหัวหน้าสาขา
	StatusCodeAdminClosed     = "6" // ปิดทุน
)

var statusCodeSynonyms = map[string][]string{
	StatusCodePending: {
		"0",
		"pending",
		"อยู่ระหว่างการพิจารณา",
	},
	StatusCodeApproved: {
		"1",
		"approved",
		"อนุมัติ",
	},
	StatusCodeRejected: {
		"2",
		"rejected",
		"ปฏิเสธ",
	},
	StatusCodeNeedsMoreInfo: {
		"3",
		"revision",
		"needs_more_info",
		"ต้องการข้อมูลเพิ่มเติม",
	},
	StatusCodeDraft: {
		"4",
		"draft",
		"ร่าง",
	},
	StatusCodeDeptHeadPending: {
		"5",
		"dept_head_pending",
		"department_pending",
		"อยู่ระหว่างการพิจารณาจากหัวหน้าสาขา",
	},
	StatusCodeAdminClosed: {
		"6",
		"admin_closed",
		"closed",
		"ปิดทุน",
	},
}

var statusAliasToCanonical = buildStatusAliasMap()

func buildStatusAliasMap() map[string]string {
	aliasMap := make(map[string]string)
	for canonical, synonyms := range statusCodeSynonyms {
		canonicalKey := normalizeStatusCode(canonical)
		if canonicalKey != "" {
			aliasMap[canonicalKey] = canonical
		}
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// CanonicalStatusCode maps any known alias onto its canonical status code.
func CanonicalStatusCode(code string) string {
	normalized := normalizeStatusCode(code)
	if canonical, ok := statusAliasToCanonical[normalized]; ok {
		return canonical
	}
	return normalized
}

func codeCandidates(code string) []string {
	canonical := CanonicalStatusCode(code)
	seen := make(map[string]struct{})
	candidates := make([]string, 0, 1)

	add := func(value string) {
		key := normalizeStatusCode(value)
		if key == "" {
			return
		}
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, value)
	}

	add(canonical)

	if synonyms, ok := statusCodeSynonyms[canonical]; ok {
		for _, alias := range synonyms {
			add(alias)
		}
	} else if normalized := normalizeStatusCode(code); normalized != canonical {
		add(code)
	}

	return candidates
}

// IsClosedCode reports whether a raw status string denotes an admin-closed fund.
func IsClosedCode(code string) bool {
	return CanonicalStatusCode(code) == StatusCodeAdminClosed
}

// StatusFetchFunc loads the full status lookup from the backend.
type StatusFetchFunc func(ctx context.Context) ([]models.ApplicationStatus, error)

// StatusLookup is a session-scoped cache over the backend status lookup.
// It populates on first use and is never invalidated; tests inject a fetch
// function and construct a fresh lookup per case.
type StatusLookup struct {
	mu     sync.RWMutex
	byCode map[string]models.ApplicationStatus
	byID   map[int]models.ApplicationStatus
	loaded bool
	fetch  StatusFetchFunc
}

// NewStatusLookup constructs an empty lookup backed by fetch.
func NewStatusLookup(fetch StatusFetchFunc) *StatusLookup {
	return &StatusLookup{
		byCode: make(map[string]models.ApplicationStatus),
		byID:   make(map[int]models.ApplicationStatus),
		fetch:  fetch,
	}
}

func (l *StatusLookup) ensure(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return nil
	}
	if l.fetch == nil {
		return fmt.Errorf("status lookup has no fetch function")
	}

	statuses, err := l.fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to load application statuses: %w", err)
	}
	for _, status := range statuses {
		l.cacheLocked(status)
	}
	l.loaded = true
	return nil
}

func (l *StatusLookup) cacheLocked(status models.ApplicationStatus) {
	if status.ApplicationStatusID != 0 {
		l.byID[status.ApplicationStatusID] = status
	}
	for _, candidate := range codeCandidates(status.StatusCode) {
		key := normalizeStatusCode(candidate)
		if key == "" {
			continue
		}
		l.byCode[key] = status
	}
}

// ByCode resolves a status by code or any of its known aliases.
func (l *StatusLookup) ByCode(ctx context.Context, code string) (models.ApplicationStatus, error) {
	if err := l.ensure(ctx); err != nil {
		return models.ApplicationStatus{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, candidate := range codeCandidates(code) {
		if status, ok := l.byCode[normalizeStatusCode(candidate)]; ok && status.ApplicationStatusID != 0 {
			return status, nil
		}
	}
	return models.ApplicationStatus{}, fmt.Errorf("application status with code %s not found", code)
}

// ByID resolves a status by its identifier.
func (l *StatusLookup) ByID(ctx context.Context, id int) (models.ApplicationStatus, error) {
	if err := l.ensure(ctx); err != nil {
		return models.ApplicationStatus{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if status, ok := l.byID[id]; ok && status.ApplicationStatusID != 0 {
		return status, nil
	}
	return models.ApplicationStatus{}, fmt.Errorf("application status with id %d not found", id)
}

// IDByCode resolves a status id by code.
func (l *StatusLookup) IDByCode(ctx context.Context, code string) (int, error) {
	status, err := l.ByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return status.ApplicationStatusID, nil
}

// LabelByID returns the display name for a status id, falling back to the
// raw id when the lookup cannot resolve it.
func (l *StatusLookup) LabelByID(ctx context.Context, id int) string {
	status, err := l.ByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("%d", id)
	}
	if strings.TrimSpace(status.StatusName) != "" {
		return status.StatusName
	}
	if strings.TrimSpace(status.StatusCode) != "" {
		return status.StatusCode
	}
	return fmt.Sprintf("%d", id)
}

// Matches reports whether the status id resolves to any of the given codes.
func (l *StatusLookup) Matches(ctx context.Context, statusID int, codes ...string) (bool, error) {
	status, err := l.ByID(ctx, statusID)
	if err != nil {
		return false, err
	}
	statusKey := normalizeStatusCode(status.StatusCode)

	for _, code := range codes {
		for _, candidate := range codeCandidates(code) {
			if statusKey == normalizeStatusCode(candidate) {
				return true, nil
			}
		}
	}
	return false, nil
}

// IsClosed reports whether the status id represents an admin-closed fund.
func (l *StatusLookup) IsClosed(ctx context.Context, statusID int) (bool, error) {
	return l.Matches(ctx, statusID, StatusCodeAdminClosed)
}
