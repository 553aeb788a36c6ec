package app

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChoice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "allowed", value: "kdbx"},
		{name: "empty", value: "", wantErr: true},
		{name: "case sensitive", value: "KDBX", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value := tt.value
			err := ValidateChoice("type", &value, "kdbx")(&cobra.Command{}, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--type")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRequireWhen(t *testing.T) {
	t.Parallel()

	group := ""
	active := true
	fn := RequireWhen("kdbx-group", &group, func() bool { return active }, "when --type is kdbx")

	require.EqualError(t, fn(nil, nil), "--kdbx-group is required when --type is kdbx")

	group = "prod"
	require.NoError(t, fn(nil, nil))

	group = ""
	active = false
	require.NoError(t, fn(nil, nil))
}

func TestChainPreRunE(t *testing.T) {
	t.Parallel()

	var calls []string
	first := errors.New("first")
	fn := chainPreRunE(
		func(*cobra.Command, []string) error { calls = append(calls, "a"); return nil },
		nil,
		func(*cobra.Command, []string) error { calls = append(calls, "b"); return first },
		func(*cobra.Command, []string) error { calls = append(calls, "c"); return nil },
	)

	require.ErrorIs(t, fn(nil, nil), first)
	assert.Equal(t, []string{"a", "b"}, calls)
}
