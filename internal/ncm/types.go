package ncm

// Hierarchy levels of the nomenclature, derived from the shape of the code.
const (
	NivelCapitulo   = "capitulo"
	NivelPosicao    = "posicao"
	NivelNcm        = "ncm"
	NivelSubposicao = "subposicao"
)

// DataFimAberta is the sentinel end date the government table uses for
// entries that are still in force.
const DataFimAberta = "31/12/9999"

// RawEntry is one record of the raw nomenclature table. The source files
// are inconsistent about field capitalization, so both spellings are kept
// and resolved through the accessor methods below (uppercase wins when a
// record carries both).
type RawEntry struct {
	Codigo         string `json:"Codigo,omitempty"`
	CodigoMin      string `json:"codigo,omitempty"`
	Descricao      string `json:"Descricao,omitempty"`
	DescricaoMin   string `json:"descricao,omitempty"`
	DataFim        string `json:"Data_Fim,omitempty"`
	Ativo          *bool  `json:"ativo,omitempty"`
	DataInicio     string `json:"Data_Inicio,omitempty"`
	DataInicioMin  string `json:"data_inicio,omitempty"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (e RawEntry) Code() string {
	return firstNonEmpty(e.Codigo, e.CodigoMin)
}

func (e RawEntry) Description() string {
	return firstNonEmpty(e.Descricao, e.DescricaoMin)
}

func (e RawEntry) StartDate() string {
	return firstNonEmpty(e.DataInicio, e.DataInicioMin)
}

// IsActive reports whether the entry is still in force: either the end
// date is the open-ended sentinel or the record carries an explicit
// ativo=true override.
func (e RawEntry) IsActive() bool {
	if e.DataFim == DataFimAberta {
		return true
	}
	return e.Ativo != nil && *e.Ativo
}

// Document is the unit stored in the search index.
type Document struct {
	ID             int    `json:"id"`
	Codigo         string `json:"codigo"`
	Descricao      string `json:"descricao"`
	DescricaoLimpa string `json:"descricao_limpa"`
	Nivel          string `json:"nivel"`
	Capitulo       string `json:"capitulo"`
	Ativo          bool   `json:"ativo"`
	DataInicio     string `json:"data_inicio"`
}

// Summary aggregates counters over one transformation run, for operator
// feedback after an upload.
type Summary struct {
	Total  int `json:"total"`
	Ncms   int `json:"ncms"`
	Ativos int `json:"ativos"`
}
