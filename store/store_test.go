package store

import (
	"testing"
	"time"

	"expensetracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, func() {
		sqlDB.Close()
	}
}

func TestGormStore_Insert(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	expense := models.Expense{
		Amount:      25.50,
		Description: "Lunch at restaurant",
		Category:    models.CategoryFood,
		Date:        models.NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, s.Insert(&expense))

	// id 由数据库分配并写回
	assert.Equal(t, uint(7), expense.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Insert_ErrorRollsBack(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	expense := models.Expense{
		Amount:      10,
		Description: "Lunch",
		Category:    models.CategoryFood,
		Date:        models.Today(),
	}
	assert.Error(t, s.Insert(&expense))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_List(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `expenses` ORDER BY date DESC, id DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "description", "category", "date"}).
			AddRow(3, 50.0, "Movie tickets", "Entertainment", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)).
			AddRow(2, 15.0, "Uber ride", "Transport", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)).
			AddRow(1, 25.5, "Lunch", "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	expenses, err := s.List("")
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, uint(3), expenses[0].ID)
	assert.Equal(t, "2024-01-03", expenses[0].Date.Format(models.DateFormat))
	assert.Equal(t, "Lunch", expenses[2].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_List_CategoryFilter(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE category = \\? ORDER BY date DESC, id DESC").
		WithArgs("Food").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "description", "category", "date"}).
			AddRow(1, 25.5, "Lunch", "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	expenses, err := s.List("Food")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Food", expenses[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteByID(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses`").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteByID(5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteByID_NotFound(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	// 未删除任何行时回滚事务并返回 ErrNotFound
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses`").
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SumByCategory(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	// 浮点求和结果在汇总时按十进制半进位保留两位
	mock.ExpectQuery("SELECT category, SUM\\(amount\\) as total, COUNT\\(\\*\\) as count FROM `expenses` GROUP BY `category`").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total", "count"}).
			AddRow("Food", 15.004999999999999, 2).
			AddRow("Transport", 3.33, 1))

	summary, err := s.SumByCategory("")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Food": 15.01, "Transport": 3.33}, summary.TotalsByCategory)
	assert.Equal(t, 18.34, summary.OverallTotal)
	assert.Equal(t, int64(3), summary.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SumByCategory_Filter(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT category, SUM\\(amount\\) as total, COUNT\\(\\*\\) as count FROM `expenses` WHERE category = \\? GROUP BY `category`").
		WithArgs("Food").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total", "count"}).
			AddRow("Food", 30.0, 2))

	summary, err := s.SumByCategory("Food")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Food": 30.0}, summary.TotalsByCategory)
	assert.Equal(t, 30.0, summary.OverallTotal)
	assert.Equal(t, int64(2), summary.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SumByCategory_Empty(t *testing.T) {
	s, mock, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT category, SUM\\(amount\\) as total, COUNT\\(\\*\\) as count FROM `expenses` GROUP BY `category`").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total", "count"}))

	summary, err := s.SumByCategory("")
	require.NoError(t, err)
	// 空结果返回空 map 而非 nil，保证序列化为 {}
	assert.NotNil(t, summary.TotalsByCategory)
	assert.Empty(t, summary.TotalsByCategory)
	assert.Equal(t, 0.0, summary.OverallTotal)
	assert.Equal(t, int64(0), summary.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 15.01, Round2(15.005))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 3.33, Round2(3.33))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.68, Round2(-2.675))
}
