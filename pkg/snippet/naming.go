package snippet

import (
	"regexp"
	"strings"
)

var (
	firstCap = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCap   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToSnake converte identificadores como "userName", "UserID",
// "HTTPResponse" e "x-rapidapi-host" para "user_name", "user_id",
// "http_response" e "x_rapidapi_host". Entradas já em snake_case não mudam.
func CamelToSnake(name string) string {
	name = firstCap.ReplaceAllString(name, "${1}_${2}")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToLower(allCap.ReplaceAllString(name, "${1}_${2}"))
}
