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
// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go, usando as tags `env` e `envDefault`.
//
// É a base da configuração do toolkit: a chave do RapidAPI, os limites do
// pool de conexões, o logger, o cache e as métricas são lidos por ele (ver
// pkg/config.AppConfig).
//
// Tipos suportados: string, int*, uint*, bool, float*, time.Duration ("30s")
// e []string (valores separados por vírgula). Structs aninhadas e ponteiros
// para structs são processados recursivamente.
//
// Exemplo:
//
//	type ManagerConfig struct {
//		APIKey  string        `env:"RAPIDAPI_KEY"`
//		Timeout time.Duration `env:"RAPIDAPI_TIMEOUT" envDefault:"30s"`
//		Fields  []string      `env:"RAPIDAPI_FIELDS" envDefault:"result,id"`
//	}
//
//	var cfg ManagerConfig
//	if err := envloader.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Em testes, LoadFrom aceita uma função de lookup no lugar de os.LookupEnv.
package envloader
