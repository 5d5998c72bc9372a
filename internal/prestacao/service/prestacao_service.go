package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

// NovaPrestacao 发起报销单
type NovaPrestacao struct {
	ServidorID   int64
	PresidenteID int64
}

// NovoAdiantamento 登记预支款
type NovoAdiantamento struct {
	Tipo               domain.TipoAdiantamento
	NumeroAdiantamento string
	NumeroEmpenho      string
	Valor              decimal.Decimal
	DataAdiantamento   domain.Date
}

// ContagemDiarias 日补贴天数/餐数
type ContagemDiarias struct {
	DiariasDentroEstado   int
	RefeicoesDentroEstado int
	DiariasForaEstado     int
	RefeicoesForaEstado   int
}

// NovoDocumento 登记凭证
type NovoDocumento struct {
	TipoDocumento domain.TipoDocumento
	Descricao     string
	DataDocumento domain.Date
	Valor         decimal.NullDecimal
}

// NovaPassagem 登记车票
type NovaPassagem struct {
	BPE        string
	Valor      decimal.Decimal
	TipoViagem domain.TipoViagem
}

// PrestacaoService 报销单核心服务
type PrestacaoService struct {
	repo     domain.PrestacaoRepository
	cadastro domain.CadastroRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewPrestacaoService(repo domain.PrestacaoRepository, cadastro domain.CadastroRepository, logger *zap.Logger) *PrestacaoService {
	return &PrestacaoService{
		repo:     repo,
		cadastro: cadastro,
		logger:   logger,
		now:      time.Now,
	}
}

// CreatePrestacao 校验公务员和主席存在后创建
func (s *PrestacaoService) CreatePrestacao(ctx context.Context, req NovaPrestacao) (*domain.Prestacao, error) {
	if _, err := s.cadastro.FindServidor(ctx, req.ServidorID); err != nil {
		return nil, asInvalid(err, "servidor %d não encontrado", req.ServidorID)
	}
	if _, err := s.cadastro.FindPresidente(ctx, req.PresidenteID); err != nil {
		return nil, asInvalid(err, "presidente %d não encontrado", req.PresidenteID)
	}

	p := &domain.Prestacao{
		ServidorID:   req.ServidorID,
		PresidenteID: req.PresidenteID,
		DataCriacao:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("prestação criada",
		zap.Int64("id", p.ID),
		zap.Int64("servidor_id", p.ServidorID),
		zap.Int64("presidente_id", p.PresidenteID),
	)
	return s.repo.FindByID(ctx, p.ID)
}

func (s *PrestacaoService) GetPrestacao(ctx context.Context, id int64) (*domain.Prestacao, error) {
	return s.repo.FindByID(ctx, id)
}

// ==========================================
// 预支款 / 日补贴
// ==========================================

func (s *PrestacaoService) ListAdiantamentos(ctx context.Context, prestacaoID int64) ([]domain.Adiantamento, error) {
	return s.repo.ListAdiantamentos(ctx, prestacaoID)
}

// RegistrarAdiantamento 同类型预支款会被替换
func (s *PrestacaoService) RegistrarAdiantamento(ctx context.Context, prestacaoID int64, req NovoAdiantamento) (*domain.Adiantamento, error) {
	if err := s.ensurePrestacao(ctx, prestacaoID); err != nil {
		return nil, err
	}
	if !req.Tipo.IsValid() {
		return nil, fmt.Errorf("%w: tipo de adiantamento %q", domain.ErrInvalidInput, req.Tipo)
	}
	numero := strings.TrimSpace(req.NumeroAdiantamento)
	empenho := strings.TrimSpace(req.NumeroEmpenho)
	if numero == "" || empenho == "" {
		return nil, fmt.Errorf("%w: número do adiantamento e do empenho são obrigatórios", domain.ErrInvalidInput)
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser positivo", domain.ErrInvalidInput)
	}

	a := &domain.Adiantamento{
		PrestacaoID:        prestacaoID,
		Tipo:               req.Tipo,
		NumeroAdiantamento: numero,
		NumeroEmpenho:      empenho,
		Valor:              req.Valor,
		DataAdiantamento:   req.DataAdiantamento,
	}
	if err := s.repo.SaveAdiantamento(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("adiantamento registrado",
		zap.Int64("prestacao_id", prestacaoID),
		zap.String("tipo", string(a.Tipo)),
		zap.String("valor", a.Valor.String()),
	)
	return a, nil
}

func (s *PrestacaoService) GetDespesaDiaria(ctx context.Context, prestacaoID int64) (*domain.DespesaDiaria, error) {
	return s.repo.FindDespesaDiaria(ctx, prestacaoID)
}

// SalvarDespesaDiaria 不存在则创建
func (s *PrestacaoService) SalvarDespesaDiaria(ctx context.Context, prestacaoID int64, req ContagemDiarias) (*domain.DespesaDiaria, error) {
	if err := s.ensurePrestacao(ctx, prestacaoID); err != nil {
		return nil, err
	}
	if req.DiariasDentroEstado < 0 || req.RefeicoesDentroEstado < 0 ||
		req.DiariasForaEstado < 0 || req.RefeicoesForaEstado < 0 {
		return nil, fmt.Errorf("%w: quantidades não podem ser negativas", domain.ErrInvalidInput)
	}
	d := &domain.DespesaDiaria{
		PrestacaoID:           prestacaoID,
		DiariasDentroEstado:   req.DiariasDentroEstado,
		RefeicoesDentroEstado: req.RefeicoesDentroEstado,
		DiariasForaEstado:     req.DiariasForaEstado,
		RefeicoesForaEstado:   req.RefeicoesForaEstado,
	}
	if err := s.repo.SaveDespesaDiaria(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// CalcularTotais 职务不存在时返回 ErrNotFound；尚未登记天数时返回全零
func (s *PrestacaoService) CalcularTotais(ctx context.Context, prestacaoID int64) (domain.Totais, error) {
	p, err := s.repo.FindByID(ctx, prestacaoID)
	if err != nil {
		return domain.Totais{}, err
	}
	if p.Servidor == nil {
		return domain.Totais{}, fmt.Errorf("servidor da prestação %d: %w", prestacaoID, domain.ErrNotFound)
	}
	cargo, err := s.cadastro.FindCargoByNome(ctx, p.Servidor.Cargo)
	if err != nil {
		return domain.Totais{}, err
	}

	despesa, err := s.optionalDespesa(ctx, prestacaoID)
	if err != nil {
		return domain.Totais{}, err
	}
	if despesa == nil {
		return domain.Totais{}, nil
	}

	adiantamentos, err := s.repo.ListAdiantamentos(ctx, prestacaoID)
	if err != nil {
		return domain.Totais{}, err
	}
	return domain.CalcularTotais(cargo, despesa, domain.FindAdiantamento(adiantamentos, domain.AdiantamentoDiaria)), nil
}

// ==========================================
// 凭证 / 车票
// ==========================================

func (s *PrestacaoService) ListDocumentos(ctx context.Context, prestacaoID int64) ([]domain.Documento, error) {
	return s.repo.ListDocumentos(ctx, prestacaoID)
}

func (s *PrestacaoService) AddDocumento(ctx context.Context, prestacaoID int64, req NovoDocumento) (*domain.Documento, error) {
	if err := s.ensurePrestacao(ctx, prestacaoID); err != nil {
		return nil, err
	}
	if !req.TipoDocumento.IsValid() {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, req.TipoDocumento)
	}
	descricao := strings.TrimSpace(req.Descricao)
	if descricao == "" {
		return nil, fmt.Errorf("%w: descrição é obrigatória", domain.ErrInvalidInput)
	}
	if req.Valor.Valid && req.Valor.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: valor não pode ser negativo", domain.ErrInvalidInput)
	}

	d := &domain.Documento{
		PrestacaoID:   prestacaoID,
		TipoDocumento: req.TipoDocumento,
		Descricao:     descricao,
		DataDocumento: req.DataDocumento,
		Valor:         req.Valor,
	}
	if err := s.repo.CreateDocumento(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *PrestacaoService) DeleteDocumento(ctx context.Context, id int64) error {
	return s.repo.DeleteDocumento(ctx, id)
}

func (s *PrestacaoService) ListPassagens(ctx context.Context, prestacaoID int64) ([]domain.DespesaPassagem, error) {
	return s.repo.ListPassagens(ctx, prestacaoID)
}

func (s *PrestacaoService) AddPassagem(ctx context.Context, prestacaoID int64, req NovaPassagem) (*domain.DespesaPassagem, error) {
	if err := s.ensurePrestacao(ctx, prestacaoID); err != nil {
		return nil, err
	}
	bpe := strings.TrimSpace(req.BPE)
	if bpe == "" {
		return nil, fmt.Errorf("%w: BPE é obrigatório", domain.ErrInvalidInput)
	}
	if !req.TipoViagem.IsValid() {
		return nil, fmt.Errorf("%w: tipo de viagem %q", domain.ErrInvalidInput, req.TipoViagem)
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser positivo", domain.ErrInvalidInput)
	}

	p := &domain.DespesaPassagem{
		PrestacaoID: prestacaoID,
		BPE:         bpe,
		Valor:       req.Valor,
		TipoViagem:  req.TipoViagem,
	}
	if err := s.repo.CreatePassagem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PrestacaoService) DeletePassagem(ctx context.Context, id int64) error {
	return s.repo.DeletePassagem(ctx, id)
}

// ==========================================
// 步骤校验 / 报表数据
// ==========================================

// VerificarEtapa 离开某个向导步骤前的业务校验
func (s *PrestacaoService) VerificarEtapa(ctx context.Context, prestacaoID int64, etapa domain.Etapa) (domain.Verificacao, error) {
	if err := s.ensurePrestacao(ctx, prestacaoID); err != nil {
		return domain.Verificacao{}, err
	}
	switch etapa {
	case domain.EtapaAdiantamentos:
		list, err := s.repo.ListAdiantamentos(ctx, prestacaoID)
		if err != nil {
			return domain.Verificacao{}, err
		}
		return domain.VerificarAdiantamentos(list), nil
	case domain.EtapaDocumentos:
		docs, err := s.repo.ListDocumentos(ctx, prestacaoID)
		if err != nil {
			return domain.Verificacao{}, err
		}
		return domain.VerificarDocumentos(docs), nil
	case domain.EtapaPassagens:
		list, err := s.repo.ListAdiantamentos(ctx, prestacaoID)
		if err != nil {
			return domain.Verificacao{}, err
		}
		passagens, err := s.repo.ListPassagens(ctx, prestacaoID)
		if err != nil {
			return domain.Verificacao{}, err
		}
		return domain.VerificarPassagens(list, passagens), nil
	default:
		return domain.Verificacao{}, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, etapa)
	}
}

// MontarDossie 汇总生成 PDF 所需数据；缺少职务时合计为零而不是报错
func (s *PrestacaoService) MontarDossie(ctx context.Context, prestacaoID int64) (*domain.Dossie, error) {
	p, err := s.repo.FindByID(ctx, prestacaoID)
	if err != nil {
		return nil, err
	}

	adiantamentos, err := s.repo.ListAdiantamentos(ctx, prestacaoID)
	if err != nil {
		return nil, err
	}
	despesa, err := s.optionalDespesa(ctx, prestacaoID)
	if err != nil {
		return nil, err
	}
	documentos, err := s.repo.ListDocumentos(ctx, prestacaoID)
	if err != nil {
		return nil, err
	}
	passagens, err := s.repo.ListPassagens(ctx, prestacaoID)
	if err != nil {
		return nil, err
	}

	var cargo *domain.Cargo
	if p.Servidor != nil && p.Servidor.Cargo != "" {
		cargo, err = s.cadastro.FindCargoByNome(ctx, p.Servidor.Cargo)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	diaria := domain.FindAdiantamento(adiantamentos, domain.AdiantamentoDiaria)
	return &domain.Dossie{
		Prestacao:            *p,
		Cargo:                cargo,
		AdiantamentoDiaria:   diaria,
		AdiantamentoPassagem: domain.FindAdiantamento(adiantamentos, domain.AdiantamentoPassagem),
		DespesaDiaria:        despesa,
		Documentos:           documentos,
		Passagens:            passagens,
		Totais:               domain.CalcularTotais(cargo, despesa, diaria),
		GeradoEm:             s.now(),
	}, nil
}

func (s *PrestacaoService) ensurePrestacao(ctx context.Context, id int64) error {
	_, err := s.repo.FindByID(ctx, id)
	return err
}

func (s *PrestacaoService) optionalDespesa(ctx context.Context, prestacaoID int64) (*domain.DespesaDiaria, error) {
	d, err := s.repo.FindDespesaDiaria(ctx, prestacaoID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

// asInvalid 引用的实体不存在属于输入错误 (400)，其余错误原样返回
func asInvalid(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}
	return err
}
