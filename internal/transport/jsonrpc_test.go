package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type codedError struct {
	code, message, hint string
}

func (e *codedError) Error() string             { return e.message }
func (e *codedError) CodeValue() string         { return e.code }
func (e *codedError) MessageValue() string      { return e.message }
func (e *codedError) RecoveryHintValue() string { return e.hint }

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"flip","params":{"token_id":1},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "flip", req.Method)
	require.Equal(t, json.RawMessage(`{"token_id":1}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	_, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`))
	require.ErrorIs(t, err, errInvalidRequest)

	_, err = ParseRequest(bytes.NewBufferString(`{not json`))
	require.Error(t, err)
	require.NotErrorIs(t, err, errInvalidRequest)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", nil)

	require.Equal(t, 200, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
}

func TestWriteHandlerError_Coded(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("wrapped: %w", &codedError{code: "NO_ROUND", message: "no round in progress", hint: "call start_round"})
	WriteHandlerError(rec, 7, err)

	resp := decodeResponse(t, rec)
	require.Equal(t, ErrApplication, resp.Error.Code)
	require.Equal(t, "no round in progress", resp.Error.Message)
	data := resp.Error.Data.(map[string]any)
	require.Equal(t, "NO_ROUND", data["code"])
	require.Equal(t, "call start_round", data["recovery_hint"])
}

func TestWriteHandlerError_StandardCodes(t *testing.T) {
	cases := map[string]int{
		"METHOD_NOT_FOUND": ErrMethodNotFound,
		"INVALID_PARAMS":   ErrInvalidParams,
		"INVALID_LEVEL":    ErrApplication,
	}
	for code, want := range cases {
		rec := httptest.NewRecorder()
		WriteHandlerError(rec, 1, &codedError{code: code, message: code})
		require.Equal(t, want, decodeResponse(t, rec).Error.Code, code)
	}
}

func TestWriteHandlerError_Plain(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHandlerError(rec, 1, errors.New("disk on fire"))

	resp := decodeResponse(t, rec)
	require.Equal(t, ErrInternal, resp.Error.Code)
	require.Nil(t, resp.Error.Data)
}
