package model

import "time"

// MenuItem is a sellable menu entry. The same struct is persisted by the
// Firestore and gorm repositories; ID is the Firestore document id or the
// gorm primary key.
type MenuItem struct {
	ID          string    `json:"id" firestore:"-" gorm:"primaryKey;size:64"`
	Name        string    `json:"name" firestore:"name" gorm:"size:120;not null;index:idx_menu_items_category_name,priority:2"`
	Description string    `json:"description" firestore:"description" gorm:"type:text;not null"`
	Price       float64   `json:"price" firestore:"price" gorm:"not null"`
	Category    Category  `json:"category" firestore:"category" gorm:"size:64;not null;index:idx_menu_items_category_name,priority:1"`
	ImageURL    string    `json:"imageUrl" firestore:"imageUrl" gorm:"size:512"`
	IsAvailable bool      `json:"isAvailable" firestore:"isAvailable" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// MenuItemPatch carries the fields of a partial update. A nil pointer means
// the field is left untouched.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *Category
	ImageURL    *string
	IsAvailable *bool
	UpdatedAt   time.Time
}

// Fields returns the patch as a store-level field map keyed by the
// persisted (camelCase) field name.
func (p MenuItemPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Category != nil {
		fields["category"] = string(*p.Category)
	}
	if p.ImageURL != nil {
		fields["imageUrl"] = *p.ImageURL
	}
	if p.IsAvailable != nil {
		fields["isAvailable"] = *p.IsAvailable
	}
	if !p.UpdatedAt.IsZero() {
		fields["updatedAt"] = p.UpdatedAt
	}
	return fields
}

// Apply copies the set fields of the patch onto item.
func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}
	if !p.UpdatedAt.IsZero() {
		item.UpdatedAt = p.UpdatedAt
	}
}
