package labmax

import (
	"encoding/base64"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/utils"
)

// Pure transformations from the raw Labmax payload shapes into domain
// records. Parsing the same payload twice yields deep-equal records.

func parseLabel(dto etiquetaDTO) domain.PrintableLabel {
	label := domain.PrintableLabel{
		Code:      dto.Codigo.String(),
		Barcode:   dto.CodigoBarras.String(),
		Material:  dto.Material.String(),
		Recipient: dto.Recipiente.String(),
		Copies:    dto.Vias.Int(),
		Content:   utils.UnwrapFragment(dto.Conteudo),
	}

	// Older gateway versions omit the flat fields and only ship the
	// embedded markup document; extract the missing ones from it.
	if dto.Conteudo != "" && (label.Barcode == "" || label.Material == "") {
		nodes, err := utils.ParseFragment(dto.Conteudo)
		if err == nil {
			if label.Code == "" {
				label.Code = nodes.Attr("etiqueta", "codigo")
			}
			if label.Barcode == "" {
				label.Barcode = nodes.Text("codigobarras")
			}
			if label.Material == "" {
				label.Material = nodes.Attr("etiqueta", "material")
			}
			if label.Recipient == "" {
				label.Recipient = nodes.Text("recipiente")
			}
		}
	}

	return label
}

func parseLabels(dto etiquetasDTO) []domain.PrintableLabel {
	labels := make([]domain.PrintableLabel, 0, len(dto.Etiqueta))
	for _, e := range dto.Etiqueta {
		labels = append(labels, parseLabel(e))
	}
	return labels
}

func parseOrderConfirmation(orderCode string, resp incluirPedidoResponse) *domain.OrderConfirmation {
	messages := make([]string, 0, len(resp.Avisos.Aviso))
	for _, a := range resp.Avisos.Aviso {
		if a.String() != "" {
			messages = append(messages, a.String())
		}
	}

	return &domain.OrderConfirmation{
		OrderCode:    orderCode,
		ProtocolCode: resp.Protocolo.String(),
		Accepted:     true,
		Labels:       parseLabels(resp.Etiquetas),
		Messages:     messages,
	}
}

func parseResult(dto resultadoDTO) domain.LabResult {
	items := make([]domain.ResultItem, 0, len(dto.Itens.Item))
	for _, it := range dto.Itens.Item {
		items = append(items, domain.ResultItem{
			ExamCode:       it.CodigoExame.String(),
			ExamName:       it.NomeExame.String(),
			Analyte:        it.Analito.String(),
			Value:          it.Valor.String(),
			Unit:           it.Unidade.String(),
			ReferenceRange: it.ValorReferencia.String(),
			Abnormal:       it.Anormal.Bool(),
			ReleasedAt:     it.DataLiberacao.Ptr(),
		})
	}

	return domain.LabResult{
		OrderCode:   dto.Pedido.String(),
		PatientName: dto.Paciente.String(),
		Status:      dto.Situacao.String(),
		Partial:     dto.Parcial.Bool(),
		Items:       items,
		ReportURL:   dto.UrlLaudo.String(),
	}
}

func parseResults(dtos []resultadoDTO) []domain.LabResult {
	results := make([]domain.LabResult, 0, len(dtos))
	for _, dto := range dtos {
		results = append(results, parseResult(dto))
	}
	return results
}

func parseStatusReport(resp statusPedidoResponse) *domain.StatusReport {
	exams := make([]domain.ExamStatusEntry, 0, len(resp.Exames.Exame))
	for _, e := range resp.Exames.Exame {
		exams = append(exams, domain.ExamStatusEntry{
			ExamCode: e.Codigo.String(),
			Status:   e.Situacao.String(),
			Detail:   e.Descricao.String(),
		})
	}

	return &domain.StatusReport{
		OrderCode: resp.Pedido.String(),
		Stage:     resp.Etapa.String(),
		Exams:     exams,
		UpdatedAt: resp.DataAtualizacao.Ptr(),
	}
}

func parsePendingIssues(resp pendenciasResponse) []domain.PendingIssue {
	issues := make([]domain.PendingIssue, 0, len(resp.Pendencias.Pendencia))
	for _, p := range resp.Pendencias.Pendencia {
		issues = append(issues, domain.PendingIssue{
			OrderCode: p.Pedido.String(),
			ExamCode:  p.Exame.String(),
			Reason:    p.Motivo.String(),
			Detail:    p.Detalhe.String(),
			RaisedAt:  p.DataHora.Ptr(),
		})
	}
	return issues
}

func parseTraceEvents(resp rastreamentoResponse) []domain.TraceEvent {
	events := make([]domain.TraceEvent, 0, len(resp.Eventos.Evento))
	for _, e := range resp.Eventos.Evento {
		events = append(events, domain.TraceEvent{
			OrderCode:  e.Pedido.String(),
			ExamCode:   e.Exame.String(),
			Stage:      e.Etapa.String(),
			Location:   e.Local.String(),
			Operator:   e.Operador.String(),
			OccurredAt: e.DataHora.Ptr(),
		})
	}
	return events
}

func parseExamConfig(dto exameConfigDTO) domain.ExamConfig {
	return domain.ExamConfig{
		Code:            dto.Codigo.String(),
		Name:            dto.Nome.String(),
		Material:        dto.Material.String(),
		Method:          dto.Metodo.String(),
		DeadlineDays:    dto.PrazoDias.Int(),
		RequiresFasting: dto.Jejum.Bool(),
		Instructions:    dto.Instrucoes.String(),
	}
}

func parseExamInfo(resp consultarExameResponse) *domain.ExamInfo {
	synonyms := make([]string, 0, len(resp.Exame.Sinonimos.Sinonimo))
	for _, s := range resp.Exame.Sinonimos.Sinonimo {
		synonyms = append(synonyms, s.String())
	}

	preparations := make([]string, 0, len(resp.Exame.Preparos.Preparo))
	for _, p := range resp.Exame.Preparos.Preparo {
		preparations = append(preparations, p.String())
	}

	return &domain.ExamInfo{
		ExamConfig:   parseExamConfig(resp.Exame.exameConfigDTO),
		Synonyms:     synonyms,
		Preparations: preparations,
	}
}

func parseFile(dto arquivoDTO, fallbackMime string) (mime, name string, content []byte, err error) {
	content, err = base64.StdEncoding.DecodeString(dto.Conteudo)
	if err != nil {
		return "", "", nil, err
	}

	mime = dto.TipoMime.String()
	if mime == "" {
		mime = fallbackMime
	}

	return mime, dto.NomeArquivo.String(), content, nil
}
