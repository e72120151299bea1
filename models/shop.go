package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopStatus is the approval lifecycle of a shop
type ShopStatus string

const (
	ShopPending   ShopStatus = "PENDING"
	ShopActive    ShopStatus = "ACTIVE"
	ShopRejected  ShopStatus = "REJECTED"
	ShopSuspended ShopStatus = "SUSPENDED"
	ShopClosed    ShopStatus = "CLOSED"
)

func (s ShopStatus) Valid() bool {
	switch s {
	case ShopPending, ShopActive, ShopRejected, ShopSuspended, ShopClosed:
		return true
	}
	return false
}

// ShopLocation is one of the fixed canteen sites
type ShopLocation string

const (
	LocationJHSCanteen       ShopLocation = "JHS_CANTEEN"
	LocationMainCanteen      ShopLocation = "MAIN_CANTEEN"
	LocationPreschoolCanteen ShopLocation = "PRESCHOOL_CANTEEN"
	LocationFrontgate        ShopLocation = "FRONTGATE"
	LocationBackgate         ShopLocation = "BACKGATE"
)

var locationNames = map[ShopLocation]string{
	LocationJHSCanteen:       "JHS Canteen",
	LocationMainCanteen:      "Main Canteen",
	LocationPreschoolCanteen: "Preschool Canteen",
	LocationFrontgate:        "Frontgate",
	LocationBackgate:         "Backgate",
}

// Locations returns every site in declaration order
func Locations() []ShopLocation {
	return []ShopLocation{
		LocationJHSCanteen,
		LocationMainCanteen,
		LocationPreschoolCanteen,
		LocationFrontgate,
		LocationBackgate,
	}
}

func (l ShopLocation) Valid() bool {
	_, ok := locationNames[l]
	return ok
}

func (l ShopLocation) DisplayName() string {
	return locationNames[l]
}

type Shop struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	OwnerID       uint         `json:"owner_id" gorm:"not null;index"`
	Owner         User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name          string       `json:"name" gorm:"not null;size:100"`
	Description   string       `json:"description" gorm:"size:500"`
	Address       string       `json:"address" gorm:"size:200"`
	Location      ShopLocation `json:"location" gorm:"size:30"`
	ContactNumber string       `json:"contact_number" gorm:"size:20"`
	ImageURL      string       `json:"image_url"`
	Status        ShopStatus   `json:"status" gorm:"not null;default:'PENDING';index"`
	IsOpen        bool         `json:"is_open" gorm:"not null"`
	MenuItems     []MenuItem   `json:"menu_items,omitempty" gorm:"foreignKey:ShopID"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsOperational reports whether the shop accepts new orders
func (s *Shop) IsOperational() bool {
	return s.Status == ShopActive && s.IsOpen
}

type MenuItem struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	ShopID      uint              `json:"shop_id" gorm:"not null;index"`
	Name        string            `json:"name" gorm:"not null;size:100"`
	Description string            `json:"description" gorm:"size:500"`
	ImageURL    string            `json:"image_url"`
	Price       decimal.Decimal   `json:"price" gorm:"type:decimal(10,2);not null"`
	IsAvailable bool              `json:"is_available" gorm:"not null"`
	Variants    []MenuItemVariant `json:"variants,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Addons      []MenuItemAddon   `json:"addons,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Flavors     []MenuItemFlavor  `json:"flavors,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type MenuItemVariant struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	MenuItemID uint   `json:"menu_item_id" gorm:"not null;index"`
	Name       string `json:"name" gorm:"not null;size:100"`
}

type MenuItemAddon struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;index"`
	Label      string          `json:"label" gorm:"not null;size:100"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

type MenuItemFlavor struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	MenuItemID uint   `json:"menu_item_id" gorm:"not null;index"`
	Name       string `json:"name" gorm:"not null;size:100"`
}
