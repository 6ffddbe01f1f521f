package tally

import (
	"regexp"
	"strings"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// A user mention as Slack delivers it in slash-command text: a bracketed
// reference with the user id and display name, e.g. <@U123ABC|j.paye96>.
var userMentionPattern = regexp.MustCompile(`<@(\w+)\|[\w.]+>`)

const (
	maxPlaces        = 3
	maxUsersPerPlace = 3
)

// ExtractAwardees parses explicit award text into 1–3 ranked groups of user
// ids. The text splits on whitespace into place tokens ("@1a/@1b @2a @3a"),
// each token's mentions form one group (deduplicated in first-seen order,
// capped at 3), tokens without mentions are dropped, and at most the first 3
// groups are kept.
func ExtractAwardees(text string) ([][]string, error) {
	places := make([][]string, 0, maxPlaces)

	for _, token := range strings.Fields(text) {
		matches := userMentionPattern.FindAllStringSubmatch(token, -1)

		group := make([]string, 0, maxUsersPerPlace)
		seen := make(map[string]struct{}, len(matches))
		for _, match := range matches {
			id := match[1]
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			group = append(group, id)
			if len(group) == maxUsersPerPlace {
				break
			}
		}

		if len(group) == 0 {
			continue
		}
		places = append(places, group)
		if len(places) == maxPlaces {
			break
		}
	}

	if len(places) == 0 {
		return nil, domain.ErrNoAwardee
	}
	return places, nil
}

// DeriveAwardees infers award places from a ranked tally: candidates with
// equal reaction counts form one group, groups are ordered by descending
// count, and each user is kept only in the highest group they appear in
// (their single best post). Groups emptied by that dedup are removed, and at
// most the first 3 groups are kept.
func DeriveAwardees(candidates []domain.TallyCandidate) ([][]string, error) {
	claimed := make(map[string]struct{})
	places := make([][]string, 0, maxPlaces)

	for i := 0; i < len(candidates) && len(places) < maxPlaces; {
		count := candidates[i].Reactions

		var group []string
		for ; i < len(candidates) && candidates[i].Reactions == count; i++ {
			user := candidates[i].AuthorID
			if _, taken := claimed[user]; taken {
				continue
			}
			claimed[user] = struct{}{}
			group = append(group, user)
		}

		if len(group) > 0 {
			places = append(places, group)
		}
	}

	if len(places) == 0 {
		return nil, domain.ErrNoAwardee
	}
	return places, nil
}
