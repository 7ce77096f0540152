package model

// Category is one of the fixed menu sections. Categories are not stored;
// the list below is the whole set and its order is the display order.
type Category string

const (
	CategoryBreakfast  Category = "Desayunos"
	CategoryHotDrinks  Category = "Bebidas Calientes"
	CategoryColdDrinks Category = "Bebidas Frías"
	CategoryDesserts   Category = "Postres"
)

var Categories = []Category{
	CategoryBreakfast,
	CategoryHotDrinks,
	CategoryColdDrinks,
	CategoryDesserts,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
