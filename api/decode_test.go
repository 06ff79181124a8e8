package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody(t *testing.T) {
	t.Run("Without Key Returns Document", func(t *testing.T) {
		got, err := decodeBody([]byte(`{"a":[1,"x",null]}`), nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": []any{float64(1), "x", nil}}, got)
	})

	t.Run("Inner Objects Before Outer", func(t *testing.T) {
		got, err := decodeBody([]byte(`{"result":{"result":1}}`), []string{"result"})
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), map[string]any{"result": float64(1)}}, got)
	})

	t.Run("Siblings In Document Order", func(t *testing.T) {
		body := `{"a":{"result":1},"result":2,"b":{"result":3}}`
		got, err := decodeBody([]byte(body), []string{"result"})
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), float64(3), float64(2)}, got)
	})

	t.Run("Inside Arrays", func(t *testing.T) {
		body := `[{"id":"a"},{"id":"b","items":[{"id":"c"}]}]`
		got, err := decodeBody([]byte(body), []string{"id"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "c", "b"}, got)
	})

	t.Run("Several Keys", func(t *testing.T) {
		got, err := decodeBody([]byte(`{"name":"bob","id":7,"other":0}`), []string{"id", "name"})
		require.NoError(t, err)
		assert.Equal(t, []any{"bob", float64(7)}, got)
	})

	t.Run("Repeated Key Keeps Last Value", func(t *testing.T) {
		body := `{"result":1,"id":"x","result":{"result":2}}`
		got, err := decodeBody([]byte(body), []string{"result", "id"})
		require.NoError(t, err)
		assert.Equal(t, []any{float64(2), map[string]any{"result": float64(2)}, "x"}, got)
	})

	t.Run("Missing Key Returns Empty List", func(t *testing.T) {
		got, err := decodeBody([]byte(`{"a":1}`), []string{"result"})
		require.NoError(t, err)
		assert.Equal(t, []any{}, got)
	})

	t.Run("Invalid JSON Returns Raw Error", func(t *testing.T) {
		for _, keys := range [][]string{nil, {"result"}} {
			_, err := decodeBody([]byte(`<html>quota</html>`), keys)
			var syntaxErr *json.SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		}
	})
}

func TestDecodeJSON_PropagatesRequestError(t *testing.T) {
	boom := errors.New("connection reset")
	doer := &fakeDoer{fn: func(context.Context, string, string, []byte, map[string]string) (*proxy.Response, error) {
		return nil, boom
	}}

	f := NewManager("k", WithClient(doer)).Post("https://h/x", "h").Submit(context.Background(), nil, nil)
	_, err := DecodeJSON(context.Background(), f, "result")
	assert.ErrorIs(t, err, boom)
}

func TestWrapGetDecoded(t *testing.T) {
	var gotURL string
	doer := &fakeDoer{fn: func(_ context.Context, _, url string, _ []byte, _ map[string]string) (*proxy.Response, error) {
		gotURL = url
		return &proxy.Response{StatusCode: http.StatusOK, Body: []byte(`{"data":{"city":"Rio"}}`)}, nil
	}}
	m := NewManager("k", WithClient(doer))

	lookupCity := Decoded(WrapGet(m.Get("geo.example.com"), func(id int) string {
		return fmt.Sprintf("https://geo.example.com/cities/%d", id)
	}), "city")

	got, err := lookupCity(context.Background(), 3304557)
	require.NoError(t, err)
	assert.Equal(t, []any{"Rio"}, got)
	assert.Equal(t, "https://geo.example.com/cities/3304557", gotURL)
}

func TestWrapPost(t *testing.T) {
	type user struct {
		Name string `json:"UserName"`
	}
	var gotBody string
	doer := &fakeDoer{fn: func(_ context.Context, _, _ string, body []byte, _ map[string]string) (*proxy.Response, error) {
		gotBody = string(body)
		return &proxy.Response{StatusCode: http.StatusOK, Body: []byte(`{"result":"ok"}`)}, nil
	}}
	m := NewManager("k", WithClient(doer))

	createUser := WrapPost(m.Post("https://h/users", "h"), func(u user) ([]byte, map[string]any, error) {
		body, err := json.Marshal(u)
		return body, nil, err
	})

	got, err := Decoded(createUser, "result")(context.Background(), user{Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, got)
	assert.JSONEq(t, `{"UserName":"bob"}`, gotBody)

	t.Run("Build Error Fails Future", func(t *testing.T) {
		boom := errors.New("invalid input")
		failing := WrapPost(m.Post("https://h/users", "h"), func(user) ([]byte, map[string]any, error) {
			return nil, nil, boom
		})

		f := failing(context.Background(), user{})
		<-f.Done()
		_, err := f.Await(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.NotPanics(t, f.Cancel)
	})
}
