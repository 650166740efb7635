package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output  string
		wantErr bool
	}{
		{output: ""},
		{output: outputTable},
		{output: outputJSON},
		{output: outputPlain},
		{output: "yaml", wantErr: true},
		{output: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		err := validateOutputFormat(tt.output)
		if tt.wantErr {
			require.Error(t, err, tt.output)
			assert.Contains(t, err.Error(), "use one of table, json, plain")
			continue
		}
		require.NoError(t, err, tt.output)
	}
}

func TestWantJSON_ReadsRootFlag(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	var sub *cobra.Command
	for _, c := range root.Commands() {
		if c.Name() == "version" {
			sub = c
		}
	}
	require.NotNil(t, sub)

	assert.False(t, wantJSON(sub))
	require.NoError(t, root.PersistentFlags().Set("output", "json"))
	assert.True(t, wantJSON(sub))
}
