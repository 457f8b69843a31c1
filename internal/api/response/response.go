// Package response padroniza a escrita de respostas JSON dos handlers.
// Concentra a tradução de erros tipados para status HTTP, antes repetida em
// cada pacote de handler.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// Writer envia respostas de sucesso e de erro padronizadas.
type Writer struct {
	Logger logger.Logger
}

// NewWriter cria um Writer com o logger injetado.
func NewWriter(log logger.Logger) *Writer {
	return &Writer{Logger: log}
}

// Handle processa o resultado de uma chamada de serviço: sucesso com o status
// informado, ou a tradução do erro tipado para o status HTTP correspondente.
func (wr *Writer) Handle(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				wr.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		wr.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		wr.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category),
			map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// BadPayload é o atalho para payloads JSON que não decodificam.
func (wr *Writer) BadPayload(w http.ResponseWriter, r *http.Request) {
	wr.Handle(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
}
