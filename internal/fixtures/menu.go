package fixtures

// DishType classifies a dish by its main ingredient.
type DishType string

const (
	Meat  DishType = "MEAT"
	Fish  DishType = "FISH"
	Other DishType = "OTHER"
)

// CaloricLevel buckets dishes by calories.
type CaloricLevel string

const (
	Diet   CaloricLevel = "DIET"
	Normal CaloricLevel = "NORMAL"
	Fat    CaloricLevel = "FAT"
)

// Dish is a menu entry.
type Dish struct {
	Name       string
	Vegetarian bool
	Calories   int
	Type       DishType
}

func (d Dish) String() string {
	return d.Name
}

// IsVegetarian reports whether the dish has no meat or fish.
func (d Dish) IsVegetarian() bool {
	return d.Vegetarian
}

// Kind returns the dish type.
func (d Dish) Kind() DishType {
	return d.Type
}

// Level returns DIET up to 400 calories, NORMAL up to 700 and FAT above.
func (d Dish) Level() CaloricLevel {
	return LevelOf(d.Calories)
}

// LevelOf maps a calorie count to its CaloricLevel.
func LevelOf(calories int) CaloricLevel {
	switch {
	case calories <= 400:
		return Diet
	case calories <= 700:
		return Normal
	default:
		return Fat
	}
}

// Menu returns the nine-dish menu in its canonical order.
func Menu() []Dish {
	return []Dish{
		{"pork", false, 800, Meat},
		{"beef", false, 700, Meat},
		{"chicken", false, 400, Meat},
		{"french fries", true, 530, Other},
		{"rice", true, 350, Other},
		{"season fruit", true, 120, Other},
		{"pizza", true, 550, Other},
		{"prawns", false, 300, Fish},
		{"salmon", false, 450, Fish},
	}
}
