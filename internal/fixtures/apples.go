package fixtures

import "fmt"

// Apple is an inventory item.
type Apple struct {
	Weight int
	Color  string
}

func (a Apple) String() string {
	return fmt.Sprintf("Apple{weight=%d, color='%s'}", a.Weight, a.Color)
}

// Inventory returns the four-apple inventory in its canonical order.
func Inventory() []Apple {
	return []Apple{
		{80, "green"},
		{155, "green"},
		{155, "red"},
		{120, "red"},
	}
}
