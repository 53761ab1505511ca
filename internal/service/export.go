package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"attendance-bot/internal/models"
	"attendance-bot/pkg/timefmt"
)

const historySheet = "History"

// BuildHistoryWorkbook собирает xlsx из загруженного окна истории.
// Экспортируется ровно то, что уже есть в кеше пейджера.
func BuildHistoryWorkbook(records []models.AttendanceRecord, analytics models.Analytics) (*excelize.File, error) {
	file := excelize.NewFile()

	index, err := file.NewSheet(historySheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"Дата", "Приход", "Уход", "Отработано", "Перерывы", "Статус"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(historySheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIndex, record := range records {
		row := rowIndex + 2
		values := []any{
			record.Date,
			derefOrDash(record.CheckIn),
			derefOrDash(record.CheckOut),
			timefmt.HoursToHuman(record.TimeSpentHours()),
			len(record.Breaks),
			record.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(historySheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// Блок аналитики под таблицей
	summaryRow := len(records) + 3
	summary := [][2]any{
		{"Всего отработано, ч", analytics.TotalWorkingHours},
		{"Переработка, ч", analytics.TotalOvertime},
		{"Отпусков", analytics.TotalLeaves},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err := file.SetCellValue(historySheet, labelCell, pair[0]); err != nil {
			return nil, err
		}
		if err := file.SetCellValue(historySheet, valueCell, pair[1]); err != nil {
			return nil, err
		}
	}

	return file, nil
}

func derefOrDash(value *string) string {
	if value == nil || *value == "" {
		return "—"
	}
	return *value
}
