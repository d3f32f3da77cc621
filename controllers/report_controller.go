package controllers

import (
	"fmt"
	"ledger-app/repositories"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	DB        *gorm.DB
	movements *repositories.MovementRepository
	reports   *repositories.ReportRepository
}

func NewReportController(DB *gorm.DB) *ReportController {
	return &ReportController{
		DB:        DB,
		movements: repositories.NewMovementRepository(DB),
		reports:   repositories.NewReportRepository(DB),
	}
}

func movementFilterFromQuery(ctx *fiber.Ctx) repositories.MovementFilter {
	filter := repositories.MovementFilter{
		BranchID: uint(ctx.QueryInt("branch_id")),
		ItemCode: ctx.Query("item_code"),
		RefNo:    ctx.Query("ref_no"),
		Kind:     ctx.Query("kind"),
		Page:     ctx.QueryInt("page"),
		PageSize: ctx.QueryInt("page_size"),
	}

	if from := ctx.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := ctx.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			filter.DateTo = &end
		}
	}

	return filter
}

func (c *ReportController) GetMovements(ctx *fiber.Ctx) error {
	filter := movementFilterFromQuery(ctx)

	movements, total, err := c.movements.Find(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get stock movements",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"movements": movements,
			"total":     total,
		},
	})
}

func (c *ReportController) GetLowStock(ctx *fiber.Ctx) error {
	rows, err := c.reports.LowStock(uint(ctx.QueryInt("branch_id")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get low stock report",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

func (c *ReportController) GetValuation(ctx *fiber.Ctx) error {
	report, err := c.reports.Valuation(uint(ctx.QueryInt("branch_id")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get valuation report",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

func (c *ReportController) GetStockOnHand(ctx *fiber.Ctx) error {
	rows, err := c.reports.StockOnHand(uint(ctx.QueryInt("branch_id")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get stock on hand",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// ExportMovements streams the filtered movement history as an XLSX file.
func (c *ReportController) ExportMovements(ctx *fiber.Ctx) error {
	filter := movementFilterFromQuery(ctx)
	if filter.PageSize == 0 {
		filter.PageSize = 500
	}

	movements, _, err := c.movements.Find(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get stock movements",
			"error":   err.Error(),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Movements"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Item Code", "Branch", "Kind", "Qty Change", "Qty Before", "Qty After", "Reason", "Ref No", "Actor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, m := range movements {
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ItemCode,
			m.BranchName,
			m.Kind,
			m.QtyChange,
			m.QtyBefore,
			m.QtyAfter,
			m.Reason,
			m.RefNo,
			m.CreatedBy,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build XLSX file",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("stock_movements_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	return ctx.SendStream(buf)
}
