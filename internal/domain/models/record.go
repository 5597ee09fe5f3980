package models

// Category tags a persisted record. The weighing workflow always writes
// CategoryOther; the remaining values exist for legacy rows entered before
// the shop moved to itemized records.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryHousing       Category = "housing"
	CategoryOther         Category = "other"
)

// LineItem is one raw entry row as typed by the operator. Numeric fields stay
// free-form text until a record is built; unparseable values price as zero.
type LineItem struct {
	Material  string `json:"material"`
	Weight    string `json:"weight"`
	Deduction string `json:"deduction"`
	Price     string `json:"price"`
}

// RecordDetail is one persisted line of a weighing transaction. Result is
// computed once at save time and never recomputed from the other fields, so
// stored records survive later changes to the rounding rule.
type RecordDetail struct {
	Material  string  `bson:"material" json:"material"`
	Weight    float64 `bson:"weight" json:"weight"`
	Deduction float64 `bson:"deduction" json:"deduction"`
	Price     float64 `bson:"price" json:"price"`
	Result    int64   `bson:"result" json:"result"`
}

// ExpenseRecord groups the line items of one saved transaction. Records are
// immutable after creation; corrections are a delete plus a new record.
// Legacy records carry no details and are reported as a single synthetic row.
type ExpenseRecord struct {
	ID          string         `bson:"id" json:"id"`
	Amount      int64          `bson:"amount" json:"amount"`
	Category    Category       `bson:"category" json:"category"`
	Description string         `bson:"description" json:"description"`
	Date        string         `bson:"date" json:"date"`           // ISO calendar day, YYYY-MM-DD
	Timestamp   int64          `bson:"timestamp" json:"timestamp"` // creation instant, unix milliseconds
	Details     []RecordDetail `bson:"details,omitempty" json:"details,omitempty"`
}
