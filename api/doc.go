// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package api fornece o Manager, um cliente assíncrono para APIs publicadas
// no RapidAPI, usado pelas funções geradas pelo rapidgen.
//
// Visão Geral:
// Cada chamada é agendada num pool limitado de workers e devolve
// imediatamente um *Future. As conexões HTTP são reaproveitadas por um pool
// compartilhado (ver proxy.Client), e a chave da API é enviada nos headers
// exigidos pelo RapidAPI.
//
// Funcionalidades Principais:
//   - Manager: concorrência limitada (WithWorkers), logger, métricas e cache
//     injetáveis.
//   - GetEndpoint / PostEndpoint: montam os headers x-rapidapi-host e
//     x-rapidapi-key; o POST anexa os parâmetros de query à URL.
//   - Memoize: guarda respostas 2xx no cache (memória ou Redis).
//   - DecodeJSON: decodifica a resposta e, opcionalmente, coleta todos os
//     valores de uma chave em qualquer profundidade.
//   - WrapGet, WrapPost e Decoded: compõem endpoints com funções tipadas.
//
// Exemplos de Uso:
//
//	apis := api.NewManager(os.Getenv("RAPIDAPI_KEY"))
//
//	future := apis.Post("https://api.example.com/v1", "api.example.com").
//		Submit(ctx, []byte(`{"UserName":"bob"}`), map[string]any{"page": 1})
//
//	result, err := api.DecodeJSON(ctx, future, "result")
//	if err != nil {
//		// Tratar erro de rede ou de JSON
//	}
//
// Status fora da faixa 2xx não são erros: o corpo é decodificado como
// qualquer outro.
//
// Configuração:
// NewManagerFromConfig usa config.ManagerConfig (variáveis RAPIDAPI_*);
// NewManagerFromApp também liga o cache e o provider de métricas.
package api
