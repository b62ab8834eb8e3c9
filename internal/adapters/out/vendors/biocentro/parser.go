package biocentro

import (
	"encoding/base64"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/utils"
)

// Pure transformations from raw Biocentro payload shapes into domain
// records.

func parseLabel(dto etiquetaDTO) domain.PrintableLabel {
	label := domain.PrintableLabel{
		Code:    dto.Codigo.String(),
		Barcode: dto.Barras.String(),
		Copies:  dto.Vias.Int(),
		Content: utils.UnwrapFragment(dto.EtiquetaXml),
	}

	// Material and recipient only travel inside the embedded layout
	// document.
	if dto.EtiquetaXml != "" {
		nodes, err := utils.ParseFragment(dto.EtiquetaXml)
		if err == nil {
			label.Material = nodes.Text("material")
			label.Recipient = nodes.Text("recipiente")
			if label.Barcode == "" {
				label.Barcode = nodes.Attr("etiqueta", "barras")
			}
		}
	}

	return label
}

func parseLabels(dtos []etiquetaDTO) []domain.PrintableLabel {
	labels := make([]domain.PrintableLabel, 0, len(dtos))
	for _, dto := range dtos {
		labels = append(labels, parseLabel(dto))
	}
	return labels
}

func parseOrderConfirmation(orderCode string, resp enviarPedidoResponse) *domain.OrderConfirmation {
	messages := make([]string, 0, len(resp.Avisos))
	for _, a := range resp.Avisos {
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
	items := make([]domain.ResultItem, 0, len(dto.Itens))
	for _, it := range dto.Itens {
		items = append(items, domain.ResultItem{
			ExamCode:       it.Exame.String(),
			ExamName:       it.NomeExame.String(),
			Analyte:        it.Analito.String(),
			Value:          it.Resultado.String(),
			Unit:           it.Unidade.String(),
			ReferenceRange: it.Referencia.String(),
			Abnormal:       it.Alterado.Bool(),
			ReleasedAt:     it.Liberacao.Ptr(),
		})
	}

	return domain.LabResult{
		OrderCode:   dto.Pedido.String(),
		PatientName: dto.Paciente.String(),
		Status:      dto.Situacao.String(),
		Partial:     dto.Parcial.Bool(),
		Items:       items,
		ReportURL:   dto.Laudo.String(),
	}
}

func parseResults(dtos []resultadoDTO) []domain.LabResult {
	results := make([]domain.LabResult, 0, len(dtos))
	for _, dto := range dtos {
		results = append(results, parseResult(dto))
	}
	return results
}

func parseStatusReport(resp situacaoResponse) *domain.StatusReport {
	exams := make([]domain.ExamStatusEntry, 0, len(resp.Exames))
	for _, e := range resp.Exames {
		exams = append(exams, domain.ExamStatusEntry{
			ExamCode: e.Exame.String(),
			Status:   e.Situacao.String(),
			Detail:   e.Detalhe.String(),
		})
	}

	return &domain.StatusReport{
		OrderCode: resp.Pedido.String(),
		Stage:     resp.Etapa.String(),
		Exams:     exams,
		UpdatedAt: resp.Atualizacao.Ptr(),
	}
}

func parsePendingIssues(resp pendenciasResponse) []domain.PendingIssue {
	issues := make([]domain.PendingIssue, 0, len(resp.Pendencias))
	for _, p := range resp.Pendencias {
		issues = append(issues, domain.PendingIssue{
			OrderCode: p.Pedido.String(),
			ExamCode:  p.Exame.String(),
			Reason:    p.Motivo.String(),
			Detail:    p.Detalhe.String(),
			RaisedAt:  p.Data.Ptr(),
		})
	}
	return issues
}

func parseTraceEvents(resp rastreioResponse) []domain.TraceEvent {
	events := make([]domain.TraceEvent, 0, len(resp.Eventos))
	for _, e := range resp.Eventos {
		events = append(events, domain.TraceEvent{
			OrderCode:  e.Pedido.String(),
			ExamCode:   e.Exame.String(),
			Stage:      e.Etapa.String(),
			Location:   e.Local.String(),
			Operator:   e.Operador.String(),
			OccurredAt: e.Data.Ptr(),
		})
	}
	return events
}

func parseExamConfig(dto exameDTO) domain.ExamConfig {
	return domain.ExamConfig{
		Code:            dto.Codigo.String(),
		Name:            dto.Nome.String(),
		Material:        dto.Material.String(),
		Method:          dto.Metodo.String(),
		DeadlineDays:    dto.Prazo.Int(),
		RequiresFasting: dto.Jejum.Bool(),
		Instructions:    dto.Instrucao.String(),
	}
}

func parseExamInfo(resp detalheExameResponse) *domain.ExamInfo {
	synonyms := make([]string, 0, len(resp.Sinonimo))
	for _, s := range resp.Sinonimo {
		synonyms = append(synonyms, s.String())
	}

	preparations := make([]string, 0, len(resp.Preparo))
	for _, p := range resp.Preparo {
		preparations = append(preparations, p.String())
	}

	return &domain.ExamInfo{
		ExamConfig:   parseExamConfig(resp.Exame),
		Synonyms:     synonyms,
		Preparations: preparations,
	}
}

func parseFile(resp arquivoResponse, fallbackMime string) (mime, name string, content []byte, err error) {
	content, err = base64.StdEncoding.DecodeString(resp.Arquivo.String())
	if err != nil {
		return "", "", nil, err
	}

	mime = resp.Tipo.String()
	if mime == "" {
		mime = fallbackMime
	}

	return mime, resp.Nome.String(), content, nil
}
