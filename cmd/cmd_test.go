package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multinet-app/multinet-go/multinet"
)

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		want    multinet.ColumnTypes
		wantErr bool
	}{
		{
			name:  "none",
			flags: nil,
			want:  multinet.ColumnTypes{},
		},
		{
			name:  "several",
			flags: []string{"code=primary key", "population=number"},
			want: multinet.ColumnTypes{
				"code":       multinet.ColumnPrimaryKey,
				"population": multinet.ColumnNumber,
			},
		},
		{
			name:    "missing separator",
			flags:   []string{"code"},
			wantErr: true,
		},
		{
			name:    "missing name",
			flags:   []string{"=number"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			flags:   []string{"code=integer"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseColumns(tt.flags)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBindVars(t *testing.T) {
	vars, err := parseBindVars([]string{"code=BOS", "limit=10", "tags=[\"a\",\"b\"]", "eq=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"code":  "BOS",
		"limit": float64(10),
		"tags":  []any{"a", "b"},
		"eq":    "a=b",
	}, vars)

	vars, err = parseBindVars(nil)
	require.NoError(t, err)
	assert.Nil(t, vars)

	_, err = parseBindVars([]string{"novalue"})
	assert.Error(t, err)
}

func TestFileTypeFromPath(t *testing.T) {
	assert.Equal(t, multinet.FileTypeJSON, fileTypeFromPath("data/graph.JSON"))
	assert.Equal(t, multinet.FileTypeCSV, fileTypeFromPath("data/edges.csv"))
	assert.Equal(t, multinet.FileTypeCSV, fileTypeFromPath("data/edges.tsv"))
}

func TestCommandTree(t *testing.T) {
	tests := [][]string{
		{"test"},
		{"me"},
		{"users", "search"},
		{"workspace", "list"},
		{"workspace", "permissions", "set"},
		{"table", "upload"},
		{"table", "aql-create"},
		{"network", "edges"},
		{"session", "rename"},
		{"aql"},
		{"version"},
		{"update"},
	}

	for _, path := range tests {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
