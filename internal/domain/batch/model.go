package batch

import "time"

// CanonicalVolumeUnit is the only unit bottle volumes are ever persisted
// in; write paths normalize submitted volumes before they reach the store.
const CanonicalVolumeUnit = "ml"

type Batch struct {
	ID               uint      `gorm:"primaryKey"`
	Date             time.Time `gorm:"index;not null"`
	Description      string    `gorm:"type:text;not null"`
	LiquorID         uint      `gorm:"index;not null"`
	BottleCount      int       `gorm:"default:0"`
	BottleVolume     float64   `gorm:"default:0"`
	BottleVolumeUnit string    `gorm:"size:10;default:ml"`
}

// TotalVolume is the produced volume in milliliters; zero when either
// bottle metric is missing.
func (b Batch) TotalVolume() float64 {
	if b.BottleCount > 0 && b.BottleVolume > 0 {
		return float64(b.BottleCount) * b.BottleVolume
	}
	return 0
}

type Formula struct {
	ID           uint    `gorm:"primaryKey"`
	BatchID      uint    `gorm:"index;not null"`
	IngredientID uint    `gorm:"index;not null"`
	Quantity     float64 `gorm:"not null"`
	Unit         string  `gorm:"size:20;not null"`
}

func (Formula) TableName() string { return "batch_formulas" }

// FormulaDetail is a formula row joined with its ingredient name.
type FormulaDetail struct {
	Formula
	IngredientName string
}

// BatchSummary is a batch row with its formula count, for list views.
type BatchSummary struct {
	Batch
	IngredientCount int64
}

// BatchDetail is a batch with its formulas resolved.
type BatchDetail struct {
	Batch
	Formulas []FormulaDetail
}

func (b BatchDetail) IngredientCount() int {
	return len(b.Formulas)
}

// IngredientEntry is one loosely-typed ingredient line from a batch
// creation payload. Quantity stays a string until validation so that the
// service can distinguish absent values from malformed ones.
type IngredientEntry struct {
	IngredientID uint
	Quantity     string
	Unit         string
}

type CreateBatchInput struct {
	LiquorID         uint
	UserID           uint
	Description      string
	Date             *time.Time
	BottleCount      int
	BottleVolume     float64
	BottleVolumeUnit string
	Ingredients      []IngredientEntry
}

// UpdateBottlesInput carries the optional bottle fields; nil fields are
// left unchanged.
type UpdateBottlesInput struct {
	BottleCount      *int
	BottleVolume     *float64
	BottleVolumeUnit string
}

// Update carries the optional fields of a partial batch update.
type Update struct {
	Description      *string
	Date             *time.Time
	BottleCount      *int
	BottleVolume     *float64
	BottleVolumeUnit *string
}

// FormulaUpdate carries the optional fields of a partial formula update.
type FormulaUpdate struct {
	IngredientID *uint
	Quantity     *float64
	Unit         *string
}
