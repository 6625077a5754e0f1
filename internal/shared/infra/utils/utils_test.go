package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_NoHTMLEscapeNoNewline(t *testing.T) {
	out, err := MarshalJSON(map[string]string{"a": "<b>&</b>"})

	require.NoError(t, err)
	assert.Equal(t, `{"a":"<b>&</b>"}`, string(out))
}

func TestRoundTrip_ProducesGenericMap(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	out, err := RoundTrip(payload{Name: "x", Count: 2})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "x", "count": int64(2)}, out)
}

func TestDecodeGeneric_KeepsNumbersExact(t *testing.T) {
	out, err := DecodeGeneric([]byte(`{"id":1000000,"big":12345678901,"ratio":0.25,"list":[2500000,1.5]}`))

	require.NoError(t, err)
	m := out.(map[string]interface{})
	assert.Equal(t, int64(1000000), m["id"])
	assert.Equal(t, int64(12345678901), m["big"])
	assert.Equal(t, json.Number("0.25"), m["ratio"])
	assert.Equal(t, []interface{}{int64(2500000), json.Number("1.5")}, m["list"])
	assert.Equal(t, "1000000", fmt.Sprint(m["id"]))
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("temporal")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New("db down")
	})

	assert.EqualError(t, err, "db down")
	assert.Equal(t, 3, calls)
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "a", Ternary(true, "a", "b"))
	assert.Equal(t, 2, Ternary(false, 1, 2))
}
