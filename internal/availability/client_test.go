package availability

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStock_StockCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stock  any
		want   int
		wantOK bool
	}{
		{name: "float64 from json", stock: float64(12), want: 12, wantOK: true},
		{name: "int", stock: 7, want: 7, wantOK: true},
		{name: "numeric string", stock: "3", want: 3, wantOK: true},
		{name: "non-numeric string", stock: "N/A", want: 0, wantOK: false},
		{name: "nil", stock: nil, want: 0, wantOK: false},
		{name: "bool", stock: true, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := StoreStock{Stock: tt.stock}
			got, ok := r.StockCount()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStoreStock_DecodesMixedPayload(t *testing.T) {
	t.Parallel()

	// One bad stock value must not fail the whole payload.
	payload := `[
		{"buCode": "088", "name": "Barkarby", "stock": 14, "probability": "HIGH"},
		{"buCode": "121", "name": "Kungens Kurva", "stock": "unknown", "probability": "LOW"}
	]`

	var records []StoreStock
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 2)

	n, ok := records[0].StockCount()
	assert.True(t, ok)
	assert.Equal(t, 14, n)

	_, ok = records[1].StockCount()
	assert.False(t, ok)
	assert.Equal(t, "LOW", records[1].Probability)
}
