package models

// Counter backs monotonic sequences such as the human-facing order number.
type Counter struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

const CounterOrderNumber = "order_number"
