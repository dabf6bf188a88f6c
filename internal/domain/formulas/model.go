package formulas

// Entry is one line of a product's formula: how many grams (or percent)
// of a material go into one unit of the product.
type Entry struct {
	ID           int64
	ProductName  string
	MaterialName string
	UsagePerUnit float64
}
