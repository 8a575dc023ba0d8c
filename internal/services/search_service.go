package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"selfcare/internal/config"
	"selfcare/internal/database"
	"selfcare/internal/models"

	"gorm.io/gorm"
)

// SortColumns maps a client-facing sort_by value to its column.
type SortColumns map[string]string

var (
	MedicationSortColumns = SortColumns{
		"id":          "id",
		"name":        "name",
		"dosage":      "dosage",
		"time":        "time_of_day",
		"start_date":  "start_date",
		"end_date":    "end_date",
		"refill_date": "refill_date",
	}
	DoctorSortColumns = SortColumns{
		"id":            "id",
		"name":          "name",
		"specialty":     "specialty",
		"first_seen":    "first_seen",
		"next_schedule": "next_schedule",
	}
)

// ListParams is a resolved list request. Column is always an allow-listed
// column name.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Column string
	Desc   bool
}

// ParseListParams reads page, limit, search, sort_by and order from a query
// string. Bad values fall back to defaults rather than failing.
func ParseListParams(q url.Values, sortable SortColumns, cfg config.PaginationConfig) ListParams {
	p := ListParams{
		Page:   positiveInt(q.Get("page"), 1),
		Limit:  positiveInt(q.Get("limit"), cfg.DefaultLimit),
		Search: strings.TrimSpace(q.Get("search")),
		Column: "id",
		Desc:   true,
	}
	if p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	if column, ok := sortable[strings.TrimSpace(q.Get("sort_by"))]; ok {
		p.Column = column
	}
	if order, ok := q["order"]; ok && len(order) > 0 {
		p.Desc = strings.EqualFold(strings.TrimSpace(order[0]), "desc")
	}
	return p
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// MedicationPage is one page of a user's medications, split by is_current.
type MedicationPage struct {
	CurrentMedications []models.MedicationResponse `json:"current_medications"`
	PastMedications    []models.MedicationResponse `json:"past_medications"`
	Pages              int                         `json:"pages"`
	Page               int                         `json:"page"`
	Limit              int                         `json:"limit"`
}

// DoctorPage is one page of a user's doctors, split by is_active.
type DoctorPage struct {
	ActiveDoctors []models.DoctorResponse `json:"active_doctors"`
	PastDoctors   []models.DoctorResponse `json:"past_doctors"`
	Pages         int                     `json:"pages"`
	Page          int                     `json:"page"`
	Limit         int                     `json:"limit"`
}

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// ListMedications pages current and past medications independently.
func (s *SearchService) ListMedications(ctx context.Context, userID uint, p ListParams) (*MedicationPage, error) {
	current, currentCount, err := listPartition[models.Medication](ctx, s.db, userID, "is_current", true, p)
	if err != nil {
		return nil, err
	}
	past, pastCount, err := listPartition[models.Medication](ctx, s.db, userID, "is_current", false, p)
	if err != nil {
		return nil, err
	}

	page := &MedicationPage{
		CurrentMedications: make([]models.MedicationResponse, 0, len(current)),
		PastMedications:    make([]models.MedicationResponse, 0, len(past)),
		Pages:              max(pageCount(currentCount, p.Limit), pageCount(pastCount, p.Limit)),
		Page:               p.Page,
		Limit:              p.Limit,
	}
	for _, m := range current {
		page.CurrentMedications = append(page.CurrentMedications, m.Response())
	}
	for _, m := range past {
		page.PastMedications = append(page.PastMedications, m.Response())
	}
	return page, nil
}

// ListDoctors pages active and past doctors independently.
func (s *SearchService) ListDoctors(ctx context.Context, userID uint, p ListParams) (*DoctorPage, error) {
	active, activeCount, err := listPartition[models.Doctor](ctx, s.db, userID, "is_active", true, p)
	if err != nil {
		return nil, err
	}
	past, pastCount, err := listPartition[models.Doctor](ctx, s.db, userID, "is_active", false, p)
	if err != nil {
		return nil, err
	}

	page := &DoctorPage{
		ActiveDoctors: make([]models.DoctorResponse, 0, len(active)),
		PastDoctors:   make([]models.DoctorResponse, 0, len(past)),
		Pages:         max(pageCount(activeCount, p.Limit), pageCount(pastCount, p.Limit)),
		Page:          p.Page,
		Limit:         p.Limit,
	}
	for _, d := range active {
		page.ActiveDoctors = append(page.ActiveDoctors, d.Response())
	}
	for _, d := range past {
		page.PastDoctors = append(page.PastDoctors, d.Response())
	}
	return page, nil
}

// listPartition counts and fetches one side of a list. flag is a trusted
// boolean column name.
func listPartition[T any](ctx context.Context, db *gorm.DB, userID uint, flag string, value bool, p ListParams) ([]T, int64, error) {
	query := func() *gorm.DB {
		return db.WithContext(ctx).
			Model(new(T)).
			Scopes(database.OwnedBy(userID), database.NameContains(p.Search)).
			Where(flag+" = ?", value)
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, internalError("failed to count records", err)
	}

	items := []T{}
	if count == 0 || p.Page > pageCount(count, p.Limit) {
		return items, count, nil
	}
	if err := query().
		Scopes(database.OrderBy(p.Column, p.Desc), database.Paginate(p.Page, p.Limit)).
		Find(&items).Error; err != nil {
		return nil, 0, internalError("failed to list records", err)
	}
	return items, count, nil
}

func pageCount(count int64, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
