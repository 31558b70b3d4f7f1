package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expensetracker/models"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 支出记录处理器
type ExpenseHandler struct {
	store store.ExpenseStore
}

// NewExpenseHandler 创建支出记录处理器
func NewExpenseHandler(s store.ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: s}
}

// CreateExpenseRequest 创建支出记录请求
// amount 兼容数字和数字字符串两种形式，且错误提示与校验顺序相关，故不使用 binding 标签
type CreateExpenseRequest struct {
	Amount      interface{} `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 存活探针，不访问存储层
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string "服务正常"
// @Router /health [get]
func (h *ExpenseHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "expense-tracker-api",
	})
}

// List 获取支出记录列表
// @Summary 获取支出记录列表
// @Description 获取全部支出记录，支持按类别筛选。类别不在固定集合内时视为不筛选。
// @Tags 支出记录
// @Produce json
// @Param category query string false "类别筛选"
// @Success 200 {array} models.Expense "获取成功"
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	category := filterCategory(c)

	expenses, err := h.store.List(category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list expenses"))
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	c.JSON(http.StatusOK, expenses)
}

// Create 创建支出记录
// @Summary 创建支出记录
// @Description 创建一条新的支出记录。date 缺省为当天。
// @Tags 支出记录
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "支出记录信息"
// @Success 201 {object} models.Expense "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 500 {object} ErrorResponse "写入失败"
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "No data provided")
		return
	}
	if req.Amount == nil && req.Description == "" && req.Category == "" && req.Date == "" {
		BadRequest(c, "No data provided")
		return
	}

	// 校验顺序固定：金额 → 描述 → 类别 → 日期，首个失败项短路返回
	amount, errMsg := parseAmount(req.Amount)
	if errMsg != "" {
		BadRequest(c, errMsg)
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		BadRequest(c, "Description is required")
		return
	}
	if len([]rune(description)) > 200 {
		BadRequest(c, "Description must be 200 characters or less")
		return
	}

	if !models.IsValidCategory(req.Category) {
		BadRequest(c, "Category must be one of: "+strings.Join(models.GetCategories(), ", "))
		return
	}

	date := models.Today()
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			BadRequest(c, "Date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	expense := models.Expense{
		Amount:      amount,
		Description: description,
		Category:    req.Category,
		Date:        date,
	}
	if err := h.store.Insert(&expense); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create expense"))
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Delete 删除支出记录
// @Summary 删除支出记录
// @Description 根据 ID 删除支出记录
// @Tags 支出记录
// @Produce json
// @Param id path int true "支出记录ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Failure 500 {object} ErrorResponse "删除失败"
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c, "Not found")
		return
	}

	if err := h.store.DeleteByID(uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "Not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "Failed to delete expense"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// Summary 获取支出汇总
// @Summary 获取支出汇总
// @Description 按类别汇总支出金额、总额和记录数。类别不在固定集合内时视为不筛选。
// @Tags 支出记录
// @Produce json
// @Param category query string false "类别筛选"
// @Success 200 {object} store.Summary "获取成功"
// @Router /expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	category := filterCategory(c)

	summary, err := h.store.SumByCategory(category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to summarize expenses"))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCategories 获取支出类别列表
// @Summary 获取支出类别列表
// @Description 获取固定的支出类别集合
// @Tags 支出记录
// @Produce json
// @Success 200 {array} string "获取成功"
// @Router /categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.GetCategories())
}

// filterCategory 读取类别筛选参数。无效类别静默忽略（返回全量数据），
// 与创建接口的严格校验不同，这是刻意保留的行为差异。
func filterCategory(c *gin.Context) string {
	category := c.Query("category")
	if !models.IsValidCategory(category) {
		return ""
	}
	return category
}

// parseAmount 解析金额，兼容 JSON 数字和数字字符串；第二个返回值非空表示校验失败
func parseAmount(raw interface{}) (float64, string) {
	if raw == nil {
		return 0, "Amount is required"
	}

	var amount float64
	switch v := raw.(type) {
	case float64:
		amount = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, "Amount must be a valid number"
		}
		amount = parsed
	default:
		return 0, "Amount must be a valid number"
	}

	if amount <= 0 {
		return 0, "Amount must be positive"
	}
	return amount, ""
}
