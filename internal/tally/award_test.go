package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JosephusPaye/memelord/internal/domain"
)

func at(userID string) string {
	return "<@" + userID + "|j.paye96>"
}

func TestExtractAwardees_NoAwardee(t *testing.T) {
	inputs := []string{
		"",
		"lots of stuff @ but nothing good @-a @",
		"(stuff here), but (nothing good (, ok then @ 20)",
		"()",
		"(((()",
	}

	for _, input := range inputs {
		_, err := ExtractAwardees(input)
		assert.ErrorIs(t, err, domain.ErrNoAwardee, "input %q", input)
	}
}

func TestExtractAwardees_WithoutGroups(t *testing.T) {
	cases := []struct {
		input    string
		expected [][]string
	}{
		{at("a"), [][]string{{"a"}}},
		{"   " + at("a") + "   " + at("b") + "   ", [][]string{{"a"}, {"b"}}},
		{"   " + at("a") + "   " + at("b") + " " + at("c") + "   ", [][]string{{"a"}, {"b"}, {"c"}}},
	}

	for _, c := range cases {
		places, err := ExtractAwardees(c.input)
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.expected, places, "input %q", c.input)
	}
}

func TestExtractAwardees_WithGroups(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected [][]string
	}{
		{
			name:     "dedupes in the same group",
			input:    at("a") + at("a"),
			expected: [][]string{{"a"}},
		},
		{
			name:     "delimiter in a group is optional",
			input:    at("a") + at("b"),
			expected: [][]string{{"a", "b"}},
		},
		{
			name:     "delimiter can be anything except space",
			input:    at("a") + "/" + at("b") + "," + at("c"),
			expected: [][]string{{"a", "b", "c"}},
		},
		{
			name:     "groups and non-groups mix",
			input:    at("_a") + " " + at("a") + "/" + at("b") + "," + at("c") + " " + at("d"),
			expected: [][]string{{"_a"}, {"a", "b", "c"}, {"d"}},
		},
		{
			name:     "max 3 per group and max 3 groups",
			input:    at("_a") + " " + at("a") + "/" + at("b") + "," + at("c") + "-" + at("d") + " " + at("e") + " " + at("f") + at("g"),
			expected: [][]string{{"_a"}, {"a", "b", "c"}, {"e"}},
		},
		{
			name:     "ignores empty groups",
			input:    "x y z,as,d " + at("_a") + " ,qed, @,@ " + at("a") + "///" + at("b") + "},, ; something @ without name " + at("c"),
			expected: [][]string{{"_a"}, {"a", "b"}, {"c"}},
		},
		{
			name:     "comma-grouped pair after a single",
			input:    at("A") + " " + at("B") + "," + at("C"),
			expected: [][]string{{"A"}, {"B", "C"}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			places, err := ExtractAwardees(c.input)
			require.NoError(t, err)
			assert.Equal(t, c.expected, places)

			assert.LessOrEqual(t, len(places), 3)
			for _, group := range places {
				assert.LessOrEqual(t, len(group), 3)
			}
		})
	}
}

func candidate(author string, reactions int) domain.TallyCandidate {
	return domain.TallyCandidate{AuthorID: author, Reactions: reactions}
}

func TestDeriveAwardees_GroupsByEqualCount(t *testing.T) {
	places, err := DeriveAwardees([]domain.TallyCandidate{
		candidate("u1", 5),
		candidate("u2", 5),
		candidate("u3", 3),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"u1", "u2"}, {"u3"}}, places)
}

func TestDeriveAwardees_UserKeptOnlyInHighestGroup(t *testing.T) {
	places, err := DeriveAwardees([]domain.TallyCandidate{
		candidate("u1", 5),
		candidate("u2", 4),
		candidate("u1", 4),
		candidate("u3", 2),
		candidate("u2", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"u1"}, {"u2"}, {"u3"}}, places)

	seen := make(map[string]int)
	for _, group := range places {
		for _, user := range group {
			seen[user]++
		}
	}
	for user, n := range seen {
		assert.Equal(t, 1, n, "user %s awarded more than once", user)
	}
}

func TestDeriveAwardees_DropsEmptiedGroups(t *testing.T) {
	// The 4-reaction group collapses to nothing after dedup, so the
	// 2-reaction group moves up to second place.
	places, err := DeriveAwardees([]domain.TallyCandidate{
		candidate("u1", 5),
		candidate("u1", 4),
		candidate("u2", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"u1"}, {"u2"}}, places)
}

func TestDeriveAwardees_AtMostThreeGroups(t *testing.T) {
	places, err := DeriveAwardees([]domain.TallyCandidate{
		candidate("u1", 5),
		candidate("u2", 4),
		candidate("u3", 3),
		candidate("u4", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"u1"}, {"u2"}, {"u3"}}, places)
}

func TestDeriveAwardees_EmptyTally(t *testing.T) {
	_, err := DeriveAwardees(nil)
	assert.ErrorIs(t, err, domain.ErrNoAwardee)
}
