package snippet

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postSnippet = `import requests

url = "https://api.example.com/v1"

payload = "{\"UserName\": \"bob\"}"
headers = {
    'content-type': "application/json",
    'x-rapidapi-host': "api.example.com",
    'x-rapidapi-key': "SIGN-UP-FOR-KEY"
    }

response = requests.request("POST", url, data=payload, headers=headers)

print(response.text)
`

const getSnippet = `import requests

url = "https://search.p.rapidapi.com/list"

querystring = {"page": 1}

headers = {
    'x-rapidapi-host': "search.p.rapidapi.com",
    'x-rapidapi-key': "SIGN-UP-FOR-KEY"
    }

response = requests.request("GET", url, headers=headers, params=querystring)
`

func TestExtract_PostWithLiteralPayload(t *testing.T) {
	f, err := Extract(postSnippet)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"request_type":   "POST",
		"url":            "https://api.example.com/v1",
		"host_name":      "api.example.com",
		"payload_fields": map[string]any{"UserName": "bob"},
	}, f.Map())
	assert.False(t, f.Has(FieldPayload))
	assert.False(t, f.Has(FieldQueryFields))
}

func TestExtract_QueryStringWithoutPayload(t *testing.T) {
	f, err := Extract(getSnippet)
	require.NoError(t, err)

	assert.Equal(t, "GET", f.RequestType)
	require.True(t, f.Has(FieldQueryFields))
	assert.Equal(t, map[string]any{"page": int64(1)}, f.QueryFields.Plain())
	assert.NotContains(t, f.Map(), FieldPayloadFields)
}

func TestExtract_MissingRequestTypeIsFatal(t *testing.T) {
	src := `url = "https://api.example.com/v1"
response = requests.post(url)
`
	f, err := Extract(src)
	assert.Nil(t, f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPatternNotFound)

	var pnf *PatternNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, FieldRequestType, pnf.Field)
	assert.Contains(t, err.Error(), `response = requests.request("{}",`)
}

func TestExtract_ListPayloadIsUnwrappedOnce(t *testing.T) {
	src := `url = "https://x.p.rapidapi.com/batch"
payload = "[{\"id\": 1, \"tags\": [{\"a\": 1}]}, {\"id\": 2}]"
headers = {}
response = requests.request("POST", url, data=payload)
`
	f, err := Extract(src)
	require.NoError(t, err)
	require.NotNil(t, f.PayloadFields)
	assert.Equal(t, []string{"id", "tags"}, f.PayloadFields.Keys)
}

func TestExtract_JSONPayload(t *testing.T) {
	src := `payload = "{\r\n    \"active\": true,\r\n    \"note\": null\r\n}"
headers = {}
response = requests.request("POST", url, data=payload)
`
	f, err := Extract(src)
	require.NoError(t, err)
	require.NotNil(t, f.PayloadFields)
	assert.Equal(t, []string{"active", "note"}, f.PayloadFields.Keys)
}

func TestExtract_FormPayload(t *testing.T) {
	src := `payload = "grant_type=client_credentials&client-id=abc&scope[]=read"
headers = {
    'content-type': "application/x-www-form-urlencoded",
    'x-rapidapi-host': "auth.p.rapidapi.com",
    'x-rapidapi-key': "KEY"
    }
response = requests.request("POST", url, data=payload, headers=headers)
`
	f, err := Extract(src)
	require.NoError(t, err)

	assert.Nil(t, f.PayloadFields)
	assert.Equal(t, []string{"granttype", "clientid", "scope"}, f.PayloadForm)
	// o corpo bruto é mantido quando a estratégia literal falha
	assert.True(t, f.Has(FieldPayload))
	assert.Equal(t, "auth.p.rapidapi.com", f.HostName)
}

func TestExtract_FormPayloadKeepsEmptyNames(t *testing.T) {
	cases := map[string][]string{
		"a=1&&b=2":            {"a", "", "b"},
		"text=hello&lang=en&": {"text", "lang", ""},
		"=x":                  {""},
	}
	for body, want := range cases {
		t.Run(body, func(t *testing.T) {
			src := "payload = \"" + body + "\"\nheaders = {}\nresponse = requests.request(\"POST\", url, data=payload)\n"
			f, err := Extract(src)
			require.NoError(t, err)
			assert.True(t, f.Has(FieldPayloadFields))
			assert.True(t, f.Has(FieldPayload))
			assert.Equal(t, want, f.PayloadForm)
		})
	}
}

func TestExtract_InvalidQueryStringIsOmitted(t *testing.T) {
	src := `querystring = {"page": page_number}
response = requests.request("GET", url, params=querystring)
`
	f, err := Extract(src)
	require.NoError(t, err)
	assert.False(t, f.Has(FieldQueryFields))
}

func TestExtract_CRLF(t *testing.T) {
	src := "url = \"https://a.b/c\"\r\npayload = \"{}\"\r\nheaders = {}\r\nresponse = requests.request(\"PUT\", url)\r\n"
	f, err := Extract(src)
	require.NoError(t, err)
	assert.Equal(t, "PUT", f.RequestType)
	assert.Equal(t, "https://a.b/c", f.URL)
	require.NotNil(t, f.PayloadFields)
	assert.Equal(t, 0, f.PayloadFields.Len())
}

func TestExtract_DoesNotMutateInput(t *testing.T) {
	in := postSnippet
	_, err := Extract(in)
	require.NoError(t, err)
	assert.Equal(t, postSnippet, in)
}

func TestExtract_LogsMissingFieldsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := zerolog.New(&buf).Level(zerolog.DebugLevel)
	e := &Extractor{Logger: &lg}

	_, err := e.Extract(`response = requests.request("DELETE", url)`)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"field":"host_name"`)
	assert.Contains(t, out, `"field":"url"`)
	assert.Contains(t, out, `"field":"payload"`)
	assert.Contains(t, out, "querystring")
}

func TestRule_FirstMatchWins(t *testing.T) {
	r := NewRule("url", `url = "{}"`)

	v, ok := r.Find(`url = "first" url = "second"`)
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = r.Find(`URL = "upper"`)
	assert.False(t, ok, "a busca diferencia maiúsculas")
}

func TestRule_Alternatives(t *testing.T) {
	r := NewRule("host", `'host': "{}",`, `"host": "{}"`)

	v, ok := r.Find(`{"host": "b.com"}`)
	assert.True(t, ok)
	assert.Equal(t, "b.com", v)
}

func TestRules_Order(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"request_type", "host_name", "url", "payload", "querystring"}, names)
}
