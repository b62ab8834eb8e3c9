package labmax

import (
	"github.com/clinsys/lab-gateway/internal/core/json_types"
)

// Remote operation names exposed by the Labmax gateway.
const (
	opIncluirPedido          = "IncluirPedido"
	opConsultarResultado     = "ConsultarResultado"
	opConsultarResultadoLote = "ConsultarResultadoLote"
	opConsultarResultadoPer  = "ConsultarResultadoPeriodo"
	opConsultarStatusPedido  = "ConsultarStatusPedido"
	opCancelarExame          = "CancelarExame"
	opReimprimirEtiquetas    = "ReimprimirEtiquetas"
	opGerarEtiquetaRecoleta  = "GerarEtiquetaRecoleta"
	opConsultarPendencias    = "ConsultarPendencias"
	opObterMascaraLaudo      = "ObterMascaraLaudo"
	opObterLaudoPDF          = "ObterLaudoPDF"
	opConsultarRastreamento  = "ConsultarRastreabilidade"
	opListarExames           = "ListarExames"
	opConsultarExame         = "ConsultarExame"
)

// Every Labmax request embeds the lab client code and password; the
// vendor has no session concept.
type credentials struct {
	Codigo string `json:"Codigo"`
	Senha  string `json:"Senha"`
}

type responseHeader struct {
	Status   json_types.StatusCode `json:"Status"`
	Mensagem json_types.FlexString `json:"Mensagem"`
}

func (h responseHeader) header() responseHeader { return h }

// Request payloads.

type examePedidoDTO struct {
	Codigo   string `json:"Codigo"`
	Material string `json:"Material,omitempty"`
}

type incluirPedidoRequest struct {
	credentials
	Pedido struct {
		Codigo     string           `json:"Codigo"`
		Paciente   string           `json:"Paciente"`
		Documento  string           `json:"Documento,omitempty"`
		Nascimento string           `json:"Nascimento,omitempty"`
		Sexo       string           `json:"Sexo,omitempty"`
		Observacao string           `json:"Observacao,omitempty"`
		Exames     []examePedidoDTO `json:"Exames"`
		Impressora string           `json:"Impressora,omitempty"`
	} `json:"Pedido"`
}

type pedidoRequest struct {
	credentials
	Pedido string `json:"Pedido"`
}

type lotePedidosRequest struct {
	credentials
	Pedidos []string `json:"Pedidos"`
}

type periodoRequest struct {
	credentials
	DataInicio string `json:"DataInicio"`
	DataFim    string `json:"DataFim"`
}

type cancelarExameRequest struct {
	credentials
	Pedido string `json:"Pedido"`
	Exame  string `json:"Exame"`
	Motivo string `json:"Motivo,omitempty"`
}

type recoletaRequest struct {
	credentials
	Pedido string `json:"Pedido"`
	Exame  string `json:"Exame"`
	Motivo string `json:"Motivo,omitempty"`
}

type exameRequest struct {
	credentials
	Exame string `json:"Exame"`
}

// Response payloads. Repeated elements arrive either as a bare object
// or an array, so every repeated field goes through FlexList.

type etiquetaDTO struct {
	Codigo       json_types.FlexString `json:"Codigo"`
	CodigoBarras json_types.FlexString `json:"CodigoBarras"`
	Material     json_types.FlexString `json:"Material"`
	Recipiente   json_types.FlexString `json:"Recipiente"`
	Vias         json_types.FlexInt    `json:"Vias"`
	// Conteudo carries the printable label as an embedded markup
	// document, wrapped in a comment escape marker.
	Conteudo string `json:"Conteudo"`
}

type etiquetasDTO struct {
	Etiqueta json_types.FlexList[etiquetaDTO] `json:"Etiqueta"`
}

type incluirPedidoResponse struct {
	responseHeader
	Protocolo json_types.FlexString `json:"Protocolo"`
	Etiquetas etiquetasDTO          `json:"Etiquetas"`
	Avisos    struct {
		Aviso json_types.FlexList[json_types.FlexString] `json:"Aviso"`
	} `json:"Avisos"`
}

type itemResultadoDTO struct {
	CodigoExame     json_types.FlexString      `json:"CodigoExame"`
	NomeExame       json_types.FlexString      `json:"NomeExame"`
	Analito         json_types.FlexString      `json:"Analito"`
	Valor           json_types.FlexString      `json:"Valor"`
	Unidade         json_types.FlexString      `json:"Unidade"`
	ValorReferencia json_types.FlexString      `json:"ValorReferencia"`
	Anormal         json_types.FlexBool        `json:"Anormal"`
	DataLiberacao   json_types.DateTimeOrEmpty `json:"DataLiberacao"`
}

type resultadoDTO struct {
	Pedido   json_types.FlexString `json:"Pedido"`
	Paciente json_types.FlexString `json:"Paciente"`
	Situacao json_types.FlexString `json:"Situacao"`
	Parcial  json_types.FlexBool   `json:"Parcial"`
	Itens    struct {
		Item json_types.FlexList[itemResultadoDTO] `json:"Item"`
	} `json:"Itens"`
	UrlLaudo json_types.FlexString `json:"UrlLaudo"`
}

type consultarResultadoResponse struct {
	responseHeader
	Resultado resultadoDTO `json:"Resultado"`
}

type consultarResultadoLoteResponse struct {
	responseHeader
	Resultados struct {
		Resultado json_types.FlexList[resultadoDTO] `json:"Resultado"`
	} `json:"Resultados"`
}

type exameStatusDTO struct {
	Codigo    json_types.FlexString `json:"Codigo"`
	Situacao  json_types.FlexString `json:"Situacao"`
	Descricao json_types.FlexString `json:"Descricao"`
}

type statusPedidoResponse struct {
	responseHeader
	Pedido json_types.FlexString `json:"Pedido"`
	Etapa  json_types.FlexString `json:"Etapa"`
	Exames struct {
		Exame json_types.FlexList[exameStatusDTO] `json:"Exame"`
	} `json:"Exames"`
	DataAtualizacao json_types.DateTimeOrEmpty `json:"DataAtualizacao"`
}

type etiquetasResponse struct {
	responseHeader
	Etiquetas etiquetasDTO `json:"Etiquetas"`
}

type etiquetaRecoletaResponse struct {
	responseHeader
	Etiqueta etiquetaDTO `json:"Etiqueta"`
}

type pendenciaDTO struct {
	Pedido   json_types.FlexString      `json:"Pedido"`
	Exame    json_types.FlexString      `json:"Exame"`
	Motivo   json_types.FlexString      `json:"Motivo"`
	Detalhe  json_types.FlexString      `json:"Detalhe"`
	DataHora json_types.DateTimeOrEmpty `json:"DataHora"`
}

type pendenciasResponse struct {
	responseHeader
	Pendencias struct {
		Pendencia json_types.FlexList[pendenciaDTO] `json:"Pendencia"`
	} `json:"Pendencias"`
}

type arquivoDTO struct {
	Conteudo    string                `json:"Conteudo"` // base64
	NomeArquivo json_types.FlexString `json:"NomeArquivo"`
	TipoMime    json_types.FlexString `json:"TipoMime"`
}

type mascaraLaudoResponse struct {
	responseHeader
	Mascara arquivoDTO `json:"Mascara"`
}

type laudoPDFResponse struct {
	responseHeader
	Laudo arquivoDTO `json:"Laudo"`
}

type eventoRastreioDTO struct {
	Pedido   json_types.FlexString      `json:"Pedido"`
	Exame    json_types.FlexString      `json:"Exame"`
	Etapa    json_types.FlexString      `json:"Etapa"`
	Local    json_types.FlexString      `json:"Local"`
	Operador json_types.FlexString      `json:"Operador"`
	DataHora json_types.DateTimeOrEmpty `json:"DataHora"`
}

type rastreamentoResponse struct {
	responseHeader
	Eventos struct {
		Evento json_types.FlexList[eventoRastreioDTO] `json:"Evento"`
	} `json:"Eventos"`
}

type exameConfigDTO struct {
	Codigo     json_types.FlexString `json:"Codigo"`
	Nome       json_types.FlexString `json:"Nome"`
	Material   json_types.FlexString `json:"Material"`
	Metodo     json_types.FlexString `json:"Metodo"`
	PrazoDias  json_types.FlexInt    `json:"PrazoDias"`
	Jejum      json_types.FlexBool   `json:"Jejum"`
	Instrucoes json_types.FlexString `json:"Instrucoes"`
}

type listarExamesResponse struct {
	responseHeader
	Exames struct {
		Exame json_types.FlexList[exameConfigDTO] `json:"Exame"`
	} `json:"Exames"`
}

type consultarExameResponse struct {
	responseHeader
	Exame struct {
		exameConfigDTO
		Sinonimos struct {
			Sinonimo json_types.FlexList[json_types.FlexString] `json:"Sinonimo"`
		} `json:"Sinonimos"`
		Preparos struct {
			Preparo json_types.FlexList[json_types.FlexString] `json:"Preparo"`
		} `json:"Preparos"`
	} `json:"Exame"`
}
