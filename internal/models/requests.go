package models

// Outbound send request bodies. Field names follow the admin UI contract.

type SendTextRequest struct {
	Numero      string `json:"numero"`
	Mensagem    string `json:"mensagem"`
	AgentID     string `json:"agentId,omitempty"`
	AgentName   string `json:"agentName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type SendFileRequest struct {
	Numero      string `json:"numero"`
	ArquivoURL  string `json:"arquivoUrl"`
	FileName    string `json:"fileName,omitempty"`
	Mensagem    string `json:"mensagem,omitempty"`
	AgentID     string `json:"agentId,omitempty"`
	AgentName   string `json:"agentName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type SendImageRequest struct {
	Numero      string `json:"numero"`
	ImagemURL   string `json:"imagemUrl"`
	Caption     string `json:"caption,omitempty"`
	AgentID     string `json:"agentId,omitempty"`
	AgentName   string `json:"agentName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type SendButtonsRequest struct {
	Numero      string   `json:"numero"`
	Titulo      string   `json:"titulo"`
	Botoes      []string `json:"botoes"`
	AgentID     string   `json:"agentId,omitempty"`
	AgentName   string   `json:"agentName,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

type SendListRequest struct {
	Numero       string     `json:"numero"`
	Titulo       string     `json:"titulo,omitempty"`
	ListaDeItens []ListItem `json:"listaDeItens"`
	AgentID      string     `json:"agentId,omitempty"`
	AgentName    string     `json:"agentName,omitempty"`
	DisplayName  string     `json:"displayName,omitempty"`
}
