package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean JSON object",
			input: `{"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "clean JSON array",
			input: `[{"id": 1}, {"id": 2}]`,
			want:  `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:  "JSON object with trailing prose",
			input: `{"key": "value"} and some extra text`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "prose with embedded JSON object",
			input: `Here are the results: {"issues": [{"severity": "Critical"}]}`,
			want:  `{"issues": [{"severity": "Critical"}]}`,
		},
		{
			name:  "braces inside strings do not close early",
			input: `{"description": "unbalanced } in text", "ok": true} trailing`,
			want:  `{"description": "unbalanced } in text", "ok": true}`,
		},
		{
			name:  "escaped quote inside string",
			input: `{"text": "say \"hi\" {now}"} done`,
			want:  `{"text": "say \"hi\" {now}"}`,
		},
		{
			name:  "no JSON returns input",
			input: `no structured output here`,
			want:  `no structured output here`,
		},
		{
			name:  "unterminated JSON returns input",
			input: `{"key": "value"`,
			want:  `{"key": "value"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.input); got != tc.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
