package fixtures

import "fmt"

// Trader works in a city.
type Trader struct {
	Name string
	City string
}

func (t Trader) String() string {
	return fmt.Sprintf("Trader:%s in %s", t.Name, t.City)
}

// Transaction is a trade of a given value made in a year.
type Transaction struct {
	Trader Trader
	Year   int
	Value  int
}

func (t Transaction) String() string {
	return fmt.Sprintf("{%s, year: %d, value:%d}", t.Trader, t.Year, t.Value)
}

var (
	raoul = Trader{"Raoul", "Cambridge"}
	mario = Trader{"Mario", "Milan"}
	alan  = Trader{"Alan", "Cambridge"}
	brian = Trader{"Brian", "Cambridge"}
)

// Transactions returns the six-trade ledger in its canonical order.
func Transactions() []Transaction {
	return []Transaction{
		{brian, 2011, 300},
		{raoul, 2012, 1000},
		{raoul, 2011, 400},
		{mario, 2012, 710},
		{mario, 2012, 700},
		{alan, 2012, 950},
	}
}
