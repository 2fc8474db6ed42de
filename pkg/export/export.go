// Package export renders a timetable snapshot in tabular formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/lessonbird/timetable/core/model"
)

// WriteJSON writes the placements to w in JSON format.
func WriteJSON(w io.Writer, placements []model.Placement) error {
	enc := json.NewEncoder(w)
	return enc.Encode(placements)
}

// WriteCSV writes the placements to w in CSV format.
func WriteCSV(w io.Writer, placements []model.Placement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "day", "period_id", "class_id", "subject_id", "teacher_id", "room_id"}); err != nil {
		return err
	}
	for _, p := range placements {
		rec := []string{p.ID, p.Day.String(), p.PeriodID, p.ClassID, p.SubjectID, p.TeacherID, p.RoomID}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the placements as one worksheet per class, with days as
// columns and periods as rows. Cells hold "subject (teacher)".
func WriteXLSX(w io.Writer, placements []model.Placement) error {
	byClass := make(map[string][]model.Placement)
	for _, p := range placements {
		byClass[p.ClassID] = append(byClass[p.ClassID], p)
	}
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, class := range classes {
		sheet := class
		if i == 0 {
			// The workbook starts with one default sheet; rename it.
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}
		if err := writeClassSheet(f, sheet, byClass[class]); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeClassSheet(f *excelize.File, sheet string, placements []model.Placement) error {
	periods := make([]string, 0)
	seen := make(map[string]struct{})
	for _, p := range placements {
		if _, ok := seen[p.PeriodID]; !ok {
			seen[p.PeriodID] = struct{}{}
			periods = append(periods, p.PeriodID)
		}
	}
	sort.Strings(periods)
	rowOf := make(map[string]int, len(periods))
	for i, id := range periods {
		rowOf[id] = i + 2
	}

	if err := f.SetCellValue(sheet, "A1", "period"); err != nil {
		return err
	}
	for day := model.Monday; day <= model.Sunday; day++ {
		cell, err := excelize.CoordinatesToCellName(int(day)+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, day.String()); err != nil {
			return err
		}
	}
	for id, row := range rowOf {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, id); err != nil {
			return err
		}
	}
	for _, p := range placements {
		cell, err := excelize.CoordinatesToCellName(int(p.Day)+1, rowOf[p.PeriodID])
		if err != nil {
			return err
		}
		value := fmt.Sprintf("%s (%s)", p.SubjectID, p.TeacherID)
		if existing, err := f.GetCellValue(sheet, cell); err == nil && existing != "" {
			// Co-run placements share the slot.
			value = existing + " / " + value
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
