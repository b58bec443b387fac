package archive

import (
	"bytes"
	"fmt"

	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/xuri/excelize/v2"
)

// SheetMain holds the scalar fields as field/value rows. Every entry list
// gets its own sheet named after the list key.
const SheetMain = "Ficha"

// workbookSkipped are fields left out of workbooks.
var workbookSkipped = map[string]bool{
	"avatarBase64": true,
}

var listColumns = map[character.List][]string{
	character.ListEntries:     {"nome", "tipo", "nivel", "observacoes", "especializacao"},
	character.ListSkills:      {"nome", "custo", "descricao", "custoCompra", "alcance", "comprada"},
	character.ListFruitSkills: {"nome", "custo", "descricao", "custoCompra", "alcance", "comprada"},
	character.ListAttacks:     {"nome", "bonus", "dano"},
	character.ListItems:       {"nome", "descricao", "durabilidadeAtual", "durabilidadeOriginal"},
	character.ListSessions:    {"titulo", "resumo", "xpGanho", "recompensas", "anotacoes"},
}

func isList(name string) bool {
	_, ok := character.ParseList(name)
	return ok
}

func encodeWorkbook(c character.Character) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMain); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	record := c.Record()
	if err := writeRow(f, SheetMain, 1, []any{"campo", "valor"}); err != nil {
		return nil, err
	}
	row := 2
	for _, name := range character.FieldNames() {
		if isList(name) || workbookSkipped[name] {
			continue
		}
		if err := writeRow(f, SheetMain, row, []any{name, record[name]}); err != nil {
			return nil, err
		}
		row++
	}

	for _, list := range character.Lists() {
		if _, err := f.NewSheet(string(list)); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", list, err)
		}
		columns := listColumns[list]
		header := make([]any, len(columns))
		for i, column := range columns {
			header[i] = column
		}
		if err := writeRow(f, string(list), 1, header); err != nil {
			return nil, err
		}
		items, _ := record[string(list)].([]any)
		for i, item := range items {
			raw, _ := item.(map[string]any)
			values := make([]any, len(columns))
			for j, column := range columns {
				values[j] = raw[column]
			}
			if err := writeRow(f, string(list), i+2, values); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func decodeWorkbook(data []byte) (map[string]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetMain)
	if err != nil {
		return nil, malformed(err)
	}
	raw := make(map[string]any)
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		value := ""
		if len(row) > 1 {
			value = row[1]
		}
		raw[row[0]] = value
	}

	for _, sheet := range f.GetSheetList() {
		if !isList(sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, malformed(err)
		}
		items := make([]any, 0, len(rows))
		for i, row := range rows {
			if i == 0 || len(row) == 0 {
				continue
			}
			item := make(map[string]any, len(rows[0]))
			for j, column := range rows[0] {
				if j < len(row) {
					item[column] = row[j]
				} else {
					item[column] = ""
				}
			}
			items = append(items, item)
		}
		raw[sheet] = items
	}
	return raw, nil
}
