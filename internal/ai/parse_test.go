package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAnalysisJSON_Strict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     *Analysis
		wantErr  bool
	}{
		{
			name:     "plain object",
			response: `{"summary":"s","keywords":["a","b"],"classification":"blog","sentiment":"neutral"}`,
			want: &Analysis{
				Summary:        "s",
				Keywords:       []string{"a", "b"},
				Classification: "blog",
				Sentiment:      SentimentNeutral,
			},
		},
		{
			name:     "surrounding whitespace",
			response: "\n  {\"summary\":\"s\"}\n",
			want:     &Analysis{Summary: "s"},
		},
		{
			name:     "free text sentiment",
			response: `{"sentiment":"cautiously optimistic"}`,
			want:     &Analysis{Sentiment: "cautiously optimistic"},
		},
		{
			name:     "code fence",
			response: "```json\n{\"summary\":\"s\"}\n```",
			wantErr:  true,
		},
		{
			name:     "prose around object",
			response: `Here is the analysis: {"summary":"s"}`,
			wantErr:  true,
		},
		{
			name:     "not json",
			response: "I cannot analyze this page.",
			wantErr:  true,
		},
		{
			name:     "null",
			response: "null",
			wantErr:  true,
		},
		{
			name:     "comma separated keywords",
			response: `{"summary":"A post.","keywords":"go, scraping, ","classification":"blog","sentiment":"positive"}`,
			want: &Analysis{
				Summary:        "A post.",
				Keywords:       []string{"go", "scraping"},
				Classification: "blog",
				Sentiment:      SentimentPositive,
			},
		},
		{
			name:     "non-string values",
			response: `{"summary":"s","keywords":["go",42,""],"classification":7,"sentiment":null}`,
			want:     &Analysis{Summary: "s", Keywords: []string{"go", "42"}, Classification: "7"},
		},
		{
			name:     "object sentiment",
			response: `{"summary":"s","sentiment":{"label":"negative","score":0.8}}`,
			want:     &Analysis{Summary: "s", Sentiment: SentimentNegative},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysisJSON(tt.response, false)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnalysisJSON_Lenient(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     *Analysis
		wantErr  bool
	}{
		{
			name:     "code fence",
			response: "```json\n{\"summary\":\"s\",\"keywords\":[\"k\"]}\n```",
			want:     &Analysis{Summary: "s", Keywords: []string{"k"}},
		},
		{
			name:     "prose around object",
			response: `Sure! {"classification":"news"} Hope this helps.`,
			want:     &Analysis{Classification: "news"},
		},
		{
			name:     "braces inside strings",
			response: `Result: {"summary":"uses {curly} braces \" and quotes","sentiment":"positive"}`,
			want:     &Analysis{Summary: `uses {curly} braces " and quotes`, Sentiment: SentimentPositive},
		},
		{
			name:     "object sentiment in prose",
			response: "Analysis:\n{\"summary\":\"s\",\"keywords\":\"a,b\",\"sentiment\":{\"overall\":\"neutral\"}}",
			want:     &Analysis{Summary: "s", Keywords: []string{"a", "b"}, Sentiment: SentimentNeutral},
		},
		{
			name:     "no object",
			response: "nothing here",
			wantErr:  true,
		},
		{
			name:     "unbalanced",
			response: `{"summary":"s"`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysisJSON(tt.response, true)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 10))
	require.Equal(t, "ab", truncate("abc", 2))
	require.Equal(t, "héł", truncate("héłło", 3))
	require.Len(t, []rune(truncate(string(make([]rune, 5000)), 0)), DefaultMaxContentChars)

	original := "keep me whole"
	_ = buildUserPrompt(original, 4)
	require.Equal(t, "keep me whole", original)
	require.Equal(t, "Analyze this content:\n\nkeep", buildUserPrompt(original, 4))
}
