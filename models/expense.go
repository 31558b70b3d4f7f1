package models

// Expense 支出记录模型
type Expense struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Amount      float64 `json:"amount" gorm:"not null"`
	Description string  `json:"description" gorm:"size:200;not null"`
	Category    string  `json:"category" gorm:"size:50;not null"`
	Date        Date    `json:"date" gorm:"type:date;not null"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// 支出类别常量（固定集合）
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills"
	CategoryOther         = "Other"
)

// GetCategories 获取所有支出类别
func GetCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryBills,
		CategoryOther,
	}
}

// IsValidCategory 判断类别是否属于固定集合
func IsValidCategory(name string) bool {
	for _, c := range GetCategories() {
		if c == name {
			return true
		}
	}
	return false
}
