package netbird

import (
	"reflect"
	"testing"
)

func TestMaskSensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     any
		showChars int
		want      any
	}{
		{
			name:      "api key masked with suffix",
			input:     map[string]any{"api_key": "secret123456"},
			showChars: 4,
			want:      map[string]any{"api_key": "********3456"},
		},
		{
			name:      "case insensitive field match",
			input:     map[string]any{"Token": "abcdef", "API_KEY": "xyz12345"},
			showChars: 4,
			want:      map[string]any{"Token": "**cdef", "API_KEY": "****2345"},
		},
		{
			name:      "short value fully masked",
			input:     map[string]any{"password": "abc"},
			showChars: 4,
			want:      map[string]any{"password": "***"},
		},
		{
			name:      "non-sensitive fields untouched",
			input:     map[string]any{"name": "peer-1", "ip": "100.64.0.1"},
			showChars: 4,
			want:      map[string]any{"name": "peer-1", "ip": "100.64.0.1"},
		},
		{
			name: "nested maps walked",
			input: map[string]any{
				"config": map[string]any{"secret": "hunter22", "url": "https://x"},
			},
			showChars: 2,
			want: map[string]any{
				"config": map[string]any{"secret": "******22", "url": "https://x"},
			},
		},
		{
			name: "slices walked",
			input: []any{
				map[string]any{"access_token": "token-value"},
				"plain",
			},
			showChars: 0,
			want: []any{
				map[string]any{"access_token": "***********"},
				"plain",
			},
		},
		{
			name:      "string map",
			input:     map[string]string{"authorization": "Token abc123", "host": "api"},
			showChars: 3,
			want:      map[string]any{"authorization": "*********123", "host": "api"},
		},
		{
			name:      "negative show chars masks everything",
			input:     map[string]any{"session_id": "sess-1"},
			showChars: -1,
			want:      map[string]any{"session_id": "******"},
		},
		{
			name:      "scalar passthrough",
			input:     "just a string",
			showChars: 4,
			want:      "just a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MaskSensitive(tt.input, tt.showChars)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MaskSensitive() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMaskSensitive_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := map[string]any{"api_key": "secret123456"}
	_ = MaskSensitive(input, 4)

	if input["api_key"] != "secret123456" {
		t.Error("expected input map to be left unchanged")
	}
}
