// Package fast_rapidapi_toolkit transforma snippets Python copiados do
// RapidAPI em funções Go prontas para uso e fornece o cliente assíncrono
// que essas funções utilizam.
//
// Visão Geral:
// O fluxo tem duas etapas. O rapidgen lê o snippet de exemplo exibido pelo
// RapidAPI, extrai método, host, URL, payload e querystring e gera uma
// função Go cujos parâmetros são os campos do payload. Em tempo de
// execução, a função gerada usa um api.Manager compartilhado, que envia as
// requisições num pool limitado de workers.
//
// Sub-Pacotes Principais:
//
// 1. pkg/snippet e pkg/literal:
//   - Extração dos campos do snippet por padrões com curinga.
//   - Parser de literais Python (dict, list, str, números, True/False/None)
//     que preserva a ordem das chaves.
//
// 2. pkg/synth:
//   - Deriva nomes, tipos e valores padrão dos parâmetros.
//   - Renderiza a função e o arquivo Go gerado.
//
// 3. api:
//   - Manager com workers, pool de conexões, cache e métricas.
//   - DecodeJSON para extrair chaves em qualquer profundidade.
//
// 4. envloader e pkg/config:
//   - Configuração via variáveis de ambiente (RAPIDAPI_*, LOG_*, REDIS_*, DD_*).
//   - Arquivos de lote em YAML para o rapidgen.
//
// Exemplo de Início Rápido:
//
//	$ rapidgen generate -file lookup_user.py -name LookupUser -fields result -package client > client/lookup_user.go
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"os"
//
//		"github.com/raywall/fast-rapidapi-toolkit/api"
//		"example.com/app/client"
//	)
//
//	func main() {
//		apis := api.NewManager(os.Getenv("RAPIDAPI_KEY"))
//
//		result, err := client.LookupUser(context.Background(), apis, "bob")
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(result)
//	}
package fast_rapidapi_toolkit
