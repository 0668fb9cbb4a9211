package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		detail    DetailRecord
		want      MergedResult
	}{
		{
			name: "detail values win when positive",
			candidate: Candidate{
				URL: "u1", Name: "Cafe A", Rating: 4.0, ReviewCount: 10,
				Category: "Cafe", BudgetText: "¥1,000~¥2,000", ReviewSnippet: "nice",
			},
			detail: DetailRecord{
				Address: "Tokyo", Category: "Coffee shop", BudgetText: "¥2,000~¥3,000",
				BusinessHoursText: "月: 10:00-18:00", Rating: 4.5, ReviewCount: 120,
			},
			want: MergedResult{
				URL: "u1", Name: "Cafe A", Rating: 4.5, ReviewCount: 120,
				Category: "Cafe", BudgetText: "¥1,000~¥2,000",
				BusinessHoursText: "月: 10:00-18:00", Address: "Tokyo", ReviewSnippet: "nice",
			},
		},
		{
			name: "list values survive zero detail values",
			candidate: Candidate{
				URL: "u2", Name: "Bar B", Rating: 3.8, ReviewCount: 42,
			},
			detail: DetailRecord{Address: "Osaka"},
			want: MergedResult{
				URL: "u2", Name: "Bar B", Rating: 3.8, ReviewCount: 42,
				Address: "Osaka",
			},
		},
		{
			name:      "unknown candidate category replaced by detail",
			candidate: Candidate{URL: "u3", Category: UnknownValue},
			detail:    DetailRecord{Category: "Ramen"},
			want:      MergedResult{URL: "u3", Category: "Ramen"},
		},
		{
			name:      "empty candidate budget takes detail budget",
			candidate: Candidate{URL: "u4"},
			detail:    DetailRecord{BudgetText: "¥500~¥999"},
			want:      MergedResult{URL: "u4", BudgetText: "¥500~¥999"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.candidate, tt.detail)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchRequestQuery(t *testing.T) {
	assert.Equal(t, "ramen", SearchRequest{Keyword: "ramen"}.Query())
	assert.Equal(t, "Shibuya ramen", SearchRequest{AddressQuery: "Shibuya", Keyword: "ramen"}.Query())
}
