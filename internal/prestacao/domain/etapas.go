package domain

// 步骤校验失败时展示给用户的提示
const (
	MsgFaltaAdiantamentoDiaria = "Por favor, preencha os dados do adiantamento de diária."
	MsgFaltaNotas              = "É necessário cadastrar pelo menos uma nota fiscal e uma nota de hotel."
	MsgFaltaPassagem           = "Como há adiantamento de passagem, é necessário cadastrar pelo menos uma passagem."
)

// Verificacao 步骤校验结果
type Verificacao struct {
	OK       bool   `json:"ok"`
	Mensagem string `json:"mensagem,omitempty"`
}

func aprovado() Verificacao { return Verificacao{OK: true} }

func bloqueado(msg string) Verificacao { return Verificacao{OK: false, Mensagem: msg} }

// VerificarAdiantamentos 离开预支款步骤前必须有日补贴预支款（编号和金额）
func VerificarAdiantamentos(adiantamentos []Adiantamento) Verificacao {
	a := FindAdiantamento(adiantamentos, AdiantamentoDiaria)
	if a == nil || a.NumeroAdiantamento == "" || !a.Valor.IsPositive() {
		return bloqueado(MsgFaltaAdiantamentoDiaria)
	}
	return aprovado()
}

// VerificarDocumentos 至少一张发票和一张酒店单据
func VerificarDocumentos(documentos []Documento) Verificacao {
	var notaFiscal, notaHotel bool
	for _, d := range documentos {
		switch d.TipoDocumento {
		case DocNotaFiscal:
			notaFiscal = true
		case DocNotaHotel:
			notaHotel = true
		}
	}
	if !notaFiscal || !notaHotel {
		return bloqueado(MsgFaltaNotas)
	}
	return aprovado()
}

// VerificarPassagens 有车票预支款时至少登记一张车票
func VerificarPassagens(adiantamentos []Adiantamento, passagens []DespesaPassagem) Verificacao {
	if FindAdiantamento(adiantamentos, AdiantamentoPassagem) != nil && len(passagens) == 0 {
		return bloqueado(MsgFaltaPassagem)
	}
	return aprovado()
}
