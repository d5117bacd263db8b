package ncm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTableBareArray(t *testing.T) {
	content := `[
		{"Codigo": "01", "Descricao": "Animais vivos"},
		{"Codigo": "01.01", "Descricao": "Cavalos", "Data_Fim": "31/12/9999"}
	]`

	entries, err := DecodeTable([]byte(content))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "01", entries[0].Code())
	assert.Equal(t, "31/12/9999", entries[1].DataFim)
}

func TestDecodeTableWrapperKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Nomenclaturas", content: `{"Nomenclaturas": [{"Codigo": "01", "Descricao": "Animais vivos"}]}`},
		{name: "lowercase nomenclaturas", content: `{"nomenclaturas": [{"Codigo": "01", "Descricao": "Animais vivos"}]}`},
		{name: "produtos", content: `{"produtos": [{"Codigo": "01", "Descricao": "Animais vivos"}]}`},
		{name: "data", content: `{"data": [{"Codigo": "01", "Descricao": "Animais vivos"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := DecodeTable([]byte(tt.content))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "01", entries[0].Code())
		})
	}
}

func TestDecodeTableEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty array", content: `[]`},
		{name: "wrapper with empty list", content: `{"Nomenclaturas": []}`},
		{name: "wrapper without known keys", content: `{"Ato": "Gecex 812/2025"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTable([]byte(tt.content))
			assert.ErrorIs(t, err, ErrEmptyTable)
		})
	}
}

func TestDecodeTableInvalidJSON(t *testing.T) {
	_, err := DecodeTable([]byte(`{not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyTable)
}

func TestParseFileJSON(t *testing.T) {
	content := `{"Nomenclaturas": [{"Codigo": "01", "Descricao": "Animais vivos"}]}`

	entries, err := ParseFile("Tabela_NCM_Vigente.json", strings.NewReader(content), false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Animais vivos", entries[0].Description())
}

func TestParseFileCSV(t *testing.T) {
	content := "Codigo;Descricao;Data_Fim;Data_Inicio\n" +
		"01;Animais vivos;31/12/9999;01/01/2022\n" +
		"01.01;Cavalos;31/12/2020;\n"

	entries, err := ParseFile("tabela.csv", strings.NewReader(content), false)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "01", entries[0].Code())
	assert.Equal(t, "Animais vivos", entries[0].Description())
	assert.True(t, entries[0].IsActive())
	assert.Equal(t, "01/01/2022", entries[0].StartDate())

	assert.Equal(t, "01.01", entries[1].Code())
	assert.False(t, entries[1].IsActive())
}

func TestParseFileCSVLowercaseHeader(t *testing.T) {
	content := "codigo;descricao\n01;Animais vivos\n"

	entries, err := ParseFile("tabela.csv", strings.NewReader(content), false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "01", entries[0].Code())
}

func TestParseFileCSVMissingColumns(t *testing.T) {
	content := "Nome;Valor\na;1\n"

	_, err := ParseFile("tabela.csv", strings.NewReader(content), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code and description")
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("tabela.xlsx", strings.NewReader("irrelevant"), false)

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, ".xlsx", formatErr.Ext)
	assert.Contains(t, err.Error(), ".xlsx")
}

func TestParseFileCSVThenTransform(t *testing.T) {
	content := "Codigo;Descricao;Data_Fim\n" +
		"01;Animais vivos;31/12/9999\n" +
		"0101.21.00;<i>Puro sangue</i>;31/12/9999\n"

	entries, err := ParseFile("tabela.csv", strings.NewReader(content), false)
	require.NoError(t, err)

	docs, summary := Transform(entries)
	require.Len(t, docs, 2)
	assert.Equal(t, "01", docs[1].Capitulo)
	assert.Equal(t, "Puro sangue", docs[1].DescricaoLimpa)
	assert.Equal(t, 1, summary.Ncms)
}
