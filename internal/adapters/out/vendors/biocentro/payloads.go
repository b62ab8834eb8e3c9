package biocentro

import (
	"github.com/clinsys/lab-gateway/internal/core/json_types"
)

// Remote operation names exposed by the Biocentro gateway.
const (
	opAutenticar     = "Autenticar"
	opEnviarPedido   = "EnviarPedido"
	opObterResultado = "ObterResultado"
	opResultadosLote = "ObterResultadosLote"
	opResultadosPer  = "ObterResultadosPeriodo"
	opSituacaoPedido = "ObterSituacaoPedido"
	opCancelarExame  = "CancelarExame"
	opReimprimir     = "ReimprimirEtiquetas"
	opRecoleta       = "EtiquetaRecoleta"
	opPendencias     = "ListarPendencias"
	opObterMascara   = "ObterMascara"
	opObterLaudo     = "ObterLaudo"
	opRastrear       = "Rastrear"
	opCatalogoExames = "CatalogoExames"
	opDetalheExame   = "DetalheExame"
)

// Biocentro vendor status for an expired or invalid session token.
const statusTokenExpired = "401"

type responseHeader struct {
	Status   json_types.StatusCode `json:"status"`
	Mensagem json_types.FlexString `json:"mensagem"`
}

func (h responseHeader) header() responseHeader { return h }

// Request payloads. Apart from Autenticar, every request carries the
// session token.

type loginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

type loginResponse struct {
	responseHeader
	Token    json_types.FlexString `json:"token"`
	Validade json_types.FlexInt    `json:"validade"` // minutes, informational
}

type tokenRequest struct {
	Token string `json:"token"`
}

type enviarPedidoRequest struct {
	tokenRequest
	Pedido  string `json:"pedido"`
	Nome    string `json:"nome"`
	CPF     string `json:"cpf,omitempty"`
	DataNsc string `json:"dataNascimento,omitempty"`
	Sexo    string `json:"sexo,omitempty"`
	Obs     string `json:"observacao,omitempty"`
	Exames  []struct {
		Codigo   string `json:"codigo"`
		Material string `json:"material,omitempty"`
	} `json:"exames"`
}

type pedidoRequest struct {
	tokenRequest
	Pedido string `json:"pedido"`
}

type loteRequest struct {
	tokenRequest
	Pedidos []string `json:"pedidos"`
}

type periodoRequest struct {
	tokenRequest
	Inicio string `json:"inicio"`
	Fim    string `json:"fim"`
}

type cancelamentoRequest struct {
	tokenRequest
	Pedido string `json:"pedido"`
	Exame  string `json:"exame"`
	Motivo string `json:"motivo,omitempty"`
}

type exameRequest struct {
	tokenRequest
	Exame string `json:"exame"`
}

// Response payloads. Biocentro lists repeated elements directly under a
// plural key, but single occurrences still arrive as bare objects.

type etiquetaDTO struct {
	Codigo json_types.FlexString `json:"codigo"`
	Barras json_types.FlexString `json:"codigoBarras"`
	Vias   json_types.FlexInt    `json:"vias"`
	// EtiquetaXml carries the printable layout as an embedded markup
	// document inside a CDATA escape marker.
	EtiquetaXml string `json:"etiquetaXml"`
}

type enviarPedidoResponse struct {
	responseHeader
	Protocolo json_types.FlexString                      `json:"protocolo"`
	Etiquetas json_types.FlexList[etiquetaDTO]           `json:"etiquetas"`
	Avisos    json_types.FlexList[json_types.FlexString] `json:"avisos"`
}

type itemDTO struct {
	Exame      json_types.FlexString      `json:"exame"`
	NomeExame  json_types.FlexString      `json:"nomeExame"`
	Analito    json_types.FlexString      `json:"analito"`
	Resultado  json_types.FlexString      `json:"resultado"`
	Unidade    json_types.FlexString      `json:"unidade"`
	Referencia json_types.FlexString      `json:"referencia"`
	Alterado   json_types.FlexBool        `json:"alterado"`
	Liberacao  json_types.DateTimeOrEmpty `json:"liberacao"`
}

type resultadoDTO struct {
	Pedido   json_types.FlexString        `json:"pedido"`
	Paciente json_types.FlexString        `json:"paciente"`
	Situacao json_types.FlexString        `json:"situacao"`
	Parcial  json_types.FlexBool          `json:"parcial"`
	Itens    json_types.FlexList[itemDTO] `json:"itens"`
	Laudo    json_types.FlexString        `json:"urlLaudo"`
}

type resultadoResponse struct {
	responseHeader
	Resultado resultadoDTO `json:"resultado"`
}

type resultadosResponse struct {
	responseHeader
	Resultados json_types.FlexList[resultadoDTO] `json:"resultados"`
}

type situacaoExameDTO struct {
	Exame    json_types.FlexString `json:"exame"`
	Situacao json_types.FlexString `json:"situacao"`
	Detalhe  json_types.FlexString `json:"detalhe"`
}

type situacaoResponse struct {
	responseHeader
	Pedido      json_types.FlexString                 `json:"pedido"`
	Etapa       json_types.FlexString                 `json:"etapa"`
	Exames      json_types.FlexList[situacaoExameDTO] `json:"exames"`
	Atualizacao json_types.DateTimeOrEmpty            `json:"atualizadoEm"`
}

type etiquetasResponse struct {
	responseHeader
	Etiquetas json_types.FlexList[etiquetaDTO] `json:"etiquetas"`
}

type recoletaResponse struct {
	responseHeader
	Etiqueta etiquetaDTO `json:"etiqueta"`
}

type pendenciaDTO struct {
	Pedido  json_types.FlexString      `json:"pedido"`
	Exame   json_types.FlexString      `json:"exame"`
	Motivo  json_types.FlexString      `json:"motivo"`
	Detalhe json_types.FlexString      `json:"detalhe"`
	Data    json_types.DateTimeOrEmpty `json:"data"`
}

type pendenciasResponse struct {
	responseHeader
	Pendencias json_types.FlexList[pendenciaDTO] `json:"pendencias"`
}

type arquivoResponse struct {
	responseHeader
	Arquivo json_types.FlexString `json:"arquivo"` // base64
	Nome    json_types.FlexString `json:"nomeArquivo"`
	Tipo    json_types.FlexString `json:"tipoConteudo"`
}

type rastreioDTO struct {
	Pedido   json_types.FlexString      `json:"pedido"`
	Exame    json_types.FlexString      `json:"exame"`
	Etapa    json_types.FlexString      `json:"etapa"`
	Local    json_types.FlexString      `json:"local"`
	Operador json_types.FlexString      `json:"operador"`
	Data     json_types.DateTimeOrEmpty `json:"data"`
}

type rastreioResponse struct {
	responseHeader
	Eventos json_types.FlexList[rastreioDTO] `json:"eventos"`
}

type exameDTO struct {
	Codigo    json_types.FlexString `json:"codigo"`
	Nome      json_types.FlexString `json:"nome"`
	Material  json_types.FlexString `json:"material"`
	Metodo    json_types.FlexString `json:"metodo"`
	Prazo     json_types.FlexInt    `json:"prazoDias"`
	Jejum     json_types.FlexBool   `json:"jejum"`
	Instrucao json_types.FlexString `json:"instrucao"`
}

type catalogoResponse struct {
	responseHeader
	Exames json_types.FlexList[exameDTO] `json:"exames"`
}

type detalheExameResponse struct {
	responseHeader
	Exame    exameDTO                                   `json:"exame"`
	Sinonimo json_types.FlexList[json_types.FlexString] `json:"sinonimos"`
	Preparo  json_types.FlexList[json_types.FlexString] `json:"preparos"`
}
