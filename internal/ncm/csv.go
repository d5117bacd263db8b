package ncm

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

func getStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	if df == nil {
		return ""
	}

	if containsString(df.Names(), col) {
		return df.Col(col).Elem(rowIdx).String()
	}
	return ""
}

// pickColumn returns the first alias present in the dataframe header.
func pickColumn(df *dataframe.DataFrame, aliases ...string) string {
	for _, alias := range aliases {
		if containsString(df.Names(), alias) {
			return alias
		}
	}
	return ""
}

// parseCSV reads a semicolon-delimited table with a header row. A code
// and a description column are required; validity dates are optional.
func parseCSV(r io.Reader) ([]RawEntry, error) {
	// Type detection would read a chapter code like "01" as the integer 1,
	// so every column stays a string.
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("invalid table CSV: %w", df.Err)
	}

	codeCol := pickColumn(&df, "Codigo", "codigo")
	descCol := pickColumn(&df, "Descricao", "descricao")
	if codeCol == "" || descCol == "" {
		return nil, fmt.Errorf("csv table must have code and description columns, found: %s",
			strings.Join(df.Names(), ", "))
	}

	fimCol := pickColumn(&df, "Data_Fim", "data_fim")
	inicioCol := pickColumn(&df, "Data_Inicio", "data_inicio")

	if df.Nrow() == 0 {
		return nil, ErrEmptyTable
	}

	entries := make([]RawEntry, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		entry := RawEntry{
			Codigo:    getStr(codeCol, i, &df),
			Descricao: getStr(descCol, i, &df),
		}
		if fimCol != "" {
			entry.DataFim = getStr(fimCol, i, &df)
		}
		if inicioCol != "" {
			entry.DataInicio = getStr(inicioCol, i, &df)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
