package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		input int64
		exp   string
	}{
		"zero bytes": {
			input: 0,
			exp:   "0 B",
		},
		"negative bytes should return zero": {
			input: -100,
			exp:   "0 B",
		},
		"small bytes": {
			input: 512,
			exp:   "512 B",
		},
		"kilobytes": {
			input: 1536,
			exp:   "1.5 KB",
		},
		"megabytes": {
			input: 3 * 1024 * 1024,
			exp:   "3.0 MB",
		},
		"gigabytes": {
			input: 10 * 1024 * 1024 * 1024,
			exp:   "10.0 GB",
		},
		"terabytes should be the last unit": {
			input: 2048 * 1024 * 1024 * 1024 * 1024,
			exp:   "2048.0 TB",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, FormatBytes(test.input))
		})
	}
}
