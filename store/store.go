package store

import (
	"errors"

	"expensetracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("expense not found")

// Summary 按类别汇总结果
type Summary struct {
	TotalsByCategory map[string]float64 `json:"totals_by_category"`
	OverallTotal     float64            `json:"overall_total"`
	Count            int64              `json:"count"`
}

// ExpenseStore 支出记录存储接口
type ExpenseStore interface {
	// Insert 持久化一条记录，id 由存储层分配并写回
	Insert(expense *models.Expense) error
	// List 查询记录，category 为空表示不过滤，按日期倒序、同日期按 id 倒序
	List(category string) ([]models.Expense, error)
	// DeleteByID 删除指定记录，不存在返回 ErrNotFound
	DeleteByID(id uint) error
	// SumByCategory 汇总匹配记录，金额保留两位小数
	SumByCategory(category string) (*Summary, error)
}

// GormStore 基于 gorm 的支出记录存储
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建支出记录存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert 在事务中写入记录，失败自动回滚
func (s *GormStore) Insert(expense *models.Expense) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(expense).Error
	})
}

// List 查询支出记录列表
func (s *GormStore) List(category string) ([]models.Expense, error) {
	query := s.db.Model(&models.Expense{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteByID 在事务中删除记录，失败自动回滚
func (s *GormStore) DeleteByID(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Expense{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SumByCategory 按类别汇总金额、总额和记录数
func (s *GormStore) SumByCategory(category string) (*Summary, error) {
	query := s.db.Model(&models.Expense{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	type categoryTotal struct {
		Category string
		Total    float64
		Count    int64
	}
	var rows []categoryTotal
	if err := query.Select("category, SUM(amount) as total, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &Summary{TotalsByCategory: make(map[string]float64)}
	var overall float64
	for _, row := range rows {
		summary.TotalsByCategory[row.Category] = Round2(row.Total)
		overall += row.Total
		summary.Count += row.Count
	}
	summary.OverallTotal = Round2(overall)
	return summary, nil
}

// Round2 十进制半进位保留两位小数
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
