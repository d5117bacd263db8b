package ncm

import (
	"regexp"
	"strings"
)

var (
	reCapitulo = regexp.MustCompile(`^\d{2}$`)
	rePosicao  = regexp.MustCompile(`^\d{2}\.\d{2}$`)
	reNcm      = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
	reLeadingSep = regexp.MustCompile(`^[\s\-–]+`)
)

// DetectLevel maps the shape of a trimmed code onto its hierarchy level.
// First match wins; anything that is not a chapter, heading or full NCM
// code is a sub-item.
func DetectLevel(codigo string) string {
	switch {
	case reCapitulo.MatchString(codigo):
		return NivelCapitulo
	case rePosicao.MatchString(codigo):
		return NivelPosicao
	case reNcm.MatchString(codigo):
		return NivelNcm
	default:
		return NivelSubposicao
	}
}

// CleanDescription strips HTML tags and the leading run of whitespace,
// hyphens and en-dashes the table uses for visual indentation.
func CleanDescription(texto string) string {
	cleaned := reHTMLTag.ReplaceAllString(texto, "")
	cleaned = strings.TrimSpace(cleaned)
	return reLeadingSep.ReplaceAllString(cleaned, "")
}

// Transform maps the raw table onto indexable documents in a single
// ordered pass. Ids are the ordinal position in the input. The chapter of
// every non-chapter entry is the nearest chapter code seen before it, so
// the fold over the input order is load-bearing and must not be reordered.
func Transform(entries []RawEntry) ([]Document, Summary) {
	docs := make([]Document, 0, len(entries))
	summary := Summary{Total: len(entries)}

	capituloAtual := "00"
	for i, entry := range entries {
		codigo := strings.TrimSpace(entry.Code())
		nivel := DetectLevel(codigo)
		if nivel == NivelCapitulo {
			capituloAtual = codigo
		}

		doc := Document{
			ID:             i,
			Codigo:         codigo,
			Descricao:      entry.Description(),
			DescricaoLimpa: CleanDescription(entry.Description()),
			Nivel:          nivel,
			Capitulo:       capituloAtual,
			Ativo:          entry.IsActive(),
			DataInicio:     entry.StartDate(),
		}
		docs = append(docs, doc)

		if doc.Nivel == NivelNcm {
			summary.Ncms++
		}
		if doc.Ativo {
			summary.Ativos++
		}
	}

	return docs, summary
}
