package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	jan15 := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		format  string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-01-15", want: jan15},
		{input: "01/15/2024", want: jan15},
		{input: "1/15/2024", want: jan15},
		{input: "01/15/24", want: jan15},
		{input: "Jan 15, 2024", want: jan15},
		{input: "January 15, 2024", want: jan15},
		{input: "15 Jan 2024", want: jan15},
		{input: "20240115", want: jan15},
		{input: "2024-01-15T22:30:00-05:00", want: jan15},
		{input: "15/01/2024", format: "DD/MM/YYYY", want: jan15},
		{input: "15.01.2024", format: "02.01.2006", want: jan15},
		{input: "13/45/2024", wantErr: true},
		{input: "yesterday", wantErr: true},
		{input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutFromFormat(t *testing.T) {
	assert.Equal(t, "01/02/2006", layoutFromFormat("MM/DD/YYYY"))
	assert.Equal(t, "02-01-06", layoutFromFormat("dd-mm-yy"))
	assert.Equal(t, "1/2/2006", layoutFromFormat("M/D/YYYY"))
	assert.Equal(t, "2006-01-02", layoutFromFormat("2006-01-02"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "-4.50", want: "-4.5"},
		{input: "$1,234.56", want: "1234.56"},
		{input: "(45.00)", want: "-45"},
		{input: "+7", want: "7"},
		{input: " £ 3.20 ", want: "3.2"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "$", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
