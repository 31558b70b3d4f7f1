package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"expensetracker/models"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	store store.ExpenseStore
}

// NewExportHandler 创建导出处理器
func NewExportHandler(s store.ExpenseStore) *ExportHandler {
	return &ExportHandler{store: s}
}

// Export 导出支出记录
// @Summary 导出支出记录
// @Description 导出支出记录为 CSV 或 XLSX 文件，类别筛选语义与列表接口一致
// @Tags 导出
// @Produce text/csv
// @Param format query string false "导出格式：csv（默认）/ xlsx" Enums(csv,xlsx)
// @Param category query string false "类别筛选"
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} ErrorResponse "格式参数错误"
// @Router /expenses/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		BadRequest(c, "Format must be csv or xlsx")
		return
	}

	category := filterCategory(c)
	expenses, err := h.store.List(category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to export expenses"))
		return
	}

	filename := "expenses-" + time.Now().Format("20060102") + "." + format
	if format == "xlsx" {
		h.writeExcel(c, filename, expenses)
		return
	}
	h.writeCSV(c, filename, expenses)
}

var exportHeaders = []string{"ID", "Amount", "Description", "Category", "Date"}

func (h *ExportHandler) writeCSV(c *gin.Context, filename string, expenses []models.Expense) {
	buf := new(bytes.Buffer)
	// 添加 BOM 以便 Excel 正确识别编码
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ID),
			fmt.Sprintf("%.2f", expense.Amount),
			expense.Description,
			expense.Category,
			expense.Date.Format(models.DateFormat),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) writeExcel(c *gin.Context, filename string, expenses []models.Expense) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Expenses"
	f.SetSheetName("Sheet1", sheetName)

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, expense := range expenses {
		values := []interface{}{
			expense.ID,
			expense.Amount,
			expense.Description,
			expense.Category,
			expense.Date.Format(models.DateFormat),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "E", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
