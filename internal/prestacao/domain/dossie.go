package domain

import "time"

// Dossie 生成 PDF 所需的全部数据
type Dossie struct {
	Prestacao            Prestacao
	Cargo                *Cargo
	AdiantamentoDiaria   *Adiantamento
	AdiantamentoPassagem *Adiantamento
	DespesaDiaria        *DespesaDiaria
	Documentos           []Documento
	Passagens            []DespesaPassagem
	Totais               Totais
	GeradoEm             time.Time
}

// NomeServidor 缺失时返回 "desconhecido"
func (d Dossie) NomeServidor() string {
	if d.Prestacao.Servidor == nil || d.Prestacao.Servidor.Nome == "" {
		return "desconhecido"
	}
	return d.Prestacao.Servidor.Nome
}

func (d Dossie) NomePresidente() string {
	if d.Prestacao.Presidente == nil {
		return ""
	}
	return d.Prestacao.Presidente.Nome
}
