package models

// MedicineCategory is the dispensing form of a medicine.
type MedicineCategory string

const (
	CategoryTablet  MedicineCategory = "tablet"
	CategoryAsava   MedicineCategory = "asava"
	CategoryOil     MedicineCategory = "oil"
	CategoryChurna  MedicineCategory = "churna"
	CategorySyrup   MedicineCategory = "syrup"
	CategoryLiquids MedicineCategory = "liquids"
	CategoryTablets MedicineCategory = "tablets"
	CategoryOthers  MedicineCategory = "others"
)

// MedicineSource records how a catalogue entry was created.
type MedicineSource string

const (
	SourceManual       MedicineSource = "MANUAL"
	SourceSystemSeeded MedicineSource = "SYSTEM_SEEDED"
)

// Medicine is an inventory item. Quantity never goes below zero; it is
// changed only by the inventory ledger.
type Medicine struct {
	BaseModel
	Name                string           `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Manufacturer        string           `gorm:"size:200" json:"manufacturer,omitempty"`
	Category            MedicineCategory `gorm:"size:20;default:'others'" json:"category"`
	Quantity            int              `gorm:"not null;default:0" json:"quantity"`
	AlertLevel          int              `gorm:"default:5" json:"alertLevel"`
	MinStockThreshold   int              `gorm:"default:5" json:"minStockThreshold"`
	DefaultDosage       string           `gorm:"size:100" json:"defaultDosage,omitempty"`
	DefaultDuration     int              `json:"defaultDuration,omitempty"`
	DefaultInstructions string           `gorm:"size:255" json:"defaultInstructions,omitempty"`
	IsActive            bool             `gorm:"default:true" json:"isActive"`
	Source              MedicineSource   `gorm:"size:20;default:'MANUAL'" json:"source"`
}

// IsLowStock reports whether quantity is at or below the alert level.
func (m *Medicine) IsLowStock() bool {
	return m.Quantity <= m.AlertLevel
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c MedicineCategory) bool {
	switch c {
	case CategoryTablet, CategoryAsava, CategoryOil, CategoryChurna,
		CategorySyrup, CategoryLiquids, CategoryTablets, CategoryOthers:
		return true
	}
	return false
}
