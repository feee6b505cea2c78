package reports

import (
	"sort"

	"ospireports/lib/textutil"

	"github.com/antzucaro/matchr"
)

type RankedOrganization struct {
	Organization
	Similarity float64
}

// RankByName orders organizations by how similar their name is to `query`,
// most similar first, ignoring case and whitespace. ties keep catalog order.
func RankByName(orgs []Organization, query string) []RankedOrganization {
	query = textutil.NormalizeName(query)

	ranked := make([]RankedOrganization, len(orgs))
	for i, org := range orgs {
		ranked[i] = RankedOrganization{
			Organization: org,
			Similarity:   matchr.JaroWinkler(textutil.NormalizeName(org.Name), query, false),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}
