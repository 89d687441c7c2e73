package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	MaxContainerNameLength = 20
	MaxEmptyWeightGrams    = 10000.0
	MaxStartWeightGrams    = 10000.0
	MaxCatCount            = 99
	MinTemperatureCelsius  = -50.0
	MaxTemperatureCelsius  = 70.0
	MaxNoteLength          = 50
)

// Container is a physical water bowl being tracked.
type Container struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string
	EmptyWeight float64 // grams
	IsArchived  bool    // soft delete; archived containers keep their records
	CreatedAt   time.Time
	SortOrder   int

	// Cascade delete: removing a container removes its records too.
	Records []WaterRecord `gorm:"foreignKey:ContainerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (c *Container) ValidateName() bool {
	trimmed := strings.TrimSpace(c.Name)
	if trimmed == "" || len([]rune(trimmed)) > MaxContainerNameLength {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (c *Container) ValidateEmptyWeight() bool {
	return c.EmptyWeight >= 0 && c.EmptyWeight <= MaxEmptyWeightGrams
}

func (c *Container) IsValid() bool {
	return c.ValidateName() && c.ValidateEmptyWeight()
}

// ValidationErrors returns human readable messages for every failed check.
func (c *Container) ValidationErrors() []string {
	var errs []string

	if !c.ValidateName() {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, "container name must not be empty")
		} else {
			errs = append(errs, fmt.Sprintf("container name must be at most %d characters without control characters", MaxContainerNameLength))
		}
	}

	if !c.ValidateEmptyWeight() {
		errs = append(errs, fmt.Sprintf("empty weight must be between 0 and %.0f grams", MaxEmptyWeightGrams))
	}

	return errs
}

// WaterRecord is one water session: install (start) to optional collection (end).
type WaterRecord struct {
	ID                string `gorm:"primaryKey;size:36"`
	ContainerID       string `gorm:"index;size:36"` // kept even if the container row is gone
	StartTime         time.Time
	StartWeight       float64    // grams
	EndTime           *time.Time // nil while the session is active
	EndWeight         *float64   // nil while the session is active
	CatCount          int
	WeatherCondition  *string
	Temperature       *float64 // celsius
	Note              *string
	CreatedByDeviceID *string // empty or nil means own/legacy record
}

// Amount is the consumed amount in grams; nil while the session is unfinished.
func (r *WaterRecord) Amount() *float64 {
	if r.EndWeight == nil {
		return nil
	}
	amount := r.StartWeight - *r.EndWeight
	return &amount
}

// PerCatAmount is Amount divided by the cat count; nil while unfinished.
func (r *WaterRecord) PerCatAmount() *float64 {
	amount := r.Amount()
	if amount == nil || r.CatCount <= 0 {
		return nil
	}
	perCat := *amount / float64(r.CatCount)
	return &perCat
}

// IsActive reports whether the session has not been finished yet.
func (r *WaterRecord) IsActive() bool {
	return r.EndTime == nil
}

// IsOwnRecord reports whether the record was authored by deviceID. Records
// without an authoring device are legacy data and count as own.
func (r *WaterRecord) IsOwnRecord(deviceID string) bool {
	return r.CreatedByDeviceID == nil || *r.CreatedByDeviceID == "" || *r.CreatedByDeviceID == deviceID
}

func (r *WaterRecord) ValidateStartWeight() bool {
	return r.StartWeight > 0 && r.StartWeight <= MaxStartWeightGrams
}

func (r *WaterRecord) ValidateEndWeight() bool {
	if r.EndWeight == nil {
		return true
	}
	return *r.EndWeight >= 0 && *r.EndWeight < r.StartWeight
}

func (r *WaterRecord) ValidateCatCount() bool {
	return r.CatCount > 0 && r.CatCount <= MaxCatCount
}

func (r *WaterRecord) ValidateTemperature() bool {
	if r.Temperature == nil {
		return true
	}
	return *r.Temperature >= MinTemperatureCelsius && *r.Temperature <= MaxTemperatureCelsius
}

var remainingAmountPrefix = regexp.MustCompile(`^残量: [0-9]+g(\n|$)`)

// TrimRemainingAmount strips the composed remaining-amount prefix a finished
// record carries, leaving only the user's own note text.
func TrimRemainingAmount(note string) string {
	return remainingAmountPrefix.ReplaceAllString(note, "")
}

// ValidateNote bounds the user-entered note text. The remaining-amount prefix
// is composed by the app on finish and does not count against the bound, so a
// stored note round-trips through validation.
func (r *WaterRecord) ValidateNote() bool {
	if r.Note == nil {
		return true
	}
	return len([]rune(TrimRemainingAmount(*r.Note))) <= MaxNoteLength
}

func (r *WaterRecord) IsValid() bool {
	return r.ValidateStartWeight() &&
		r.ValidateEndWeight() &&
		r.ValidateCatCount() &&
		r.ValidateTemperature() &&
		r.ValidateNote()
}

func (r *WaterRecord) ValidationErrors() []string {
	var errs []string

	if !r.ValidateStartWeight() {
		errs = append(errs, fmt.Sprintf("start weight must be greater than 0 and at most %.0f grams", MaxStartWeightGrams))
	}

	if !r.ValidateEndWeight() {
		errs = append(errs, "end weight must be at least 0 and less than the start weight")
	}

	if !r.ValidateCatCount() {
		errs = append(errs, fmt.Sprintf("cat count must be between 1 and %d", MaxCatCount))
	}

	if !r.ValidateTemperature() {
		errs = append(errs, fmt.Sprintf("temperature must be between %.0f and %.0f celsius", MinTemperatureCelsius, MaxTemperatureCelsius))
	}

	if !r.ValidateNote() {
		errs = append(errs, fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}

	return errs
}

// Setting is a single persisted key/value app setting, e.g. the household id
// the device currently syncs against.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string
}
