package resolve

import (
	"strings"

	"github.com/inkdex/inkdex/backend/pkg/common"
	"github.com/inkdex/inkdex/backend/pkg/logger"
)

// MergeProposal proposes absorbing the entity MergeID into the entity
// KeepID. Reason names the strategy that produced the proposal.
type MergeProposal struct {
	KeepID  string
	MergeID string
	Reason  string
}

// Thresholds for the fuzzy strategy. A distance of 1-2 on a long token is
// the signature of an OCR slip; two substitutions inside an equal-length
// long token usually means a genuinely different word.
const (
	maxFuzzyDistance      = 2
	minFuzzyTokenLen      = 4
	equalLenRejectMinSize = 8
)

// candidate is an entity prepared for comparison: normalized forms,
// token sets under both plain and alias-resolved normalization, and the
// classifier verdicts.
type candidate struct {
	id          string
	name        string
	norm        string
	tokens      []string
	set         map[string]struct{}
	aliasTokens []string
	aliasSet    map[string]struct{}
	joint       bool
	proper      bool
}

// proposalSet deduplicates proposals irrespective of pair orientation:
// (A,B) and (B,A) are the same proposal and only the first one recorded
// survives.
type proposalSet struct {
	seen      map[string]struct{}
	proposals []MergeProposal
}

func newProposalSet() *proposalSet {
	return &proposalSet{seen: make(map[string]struct{})}
}

func (p *proposalSet) add(keepID, mergeID, reason string) {
	if keepID == mergeID {
		return
	}
	key := keepID + "|" + mergeID
	if mergeID < keepID {
		key = mergeID + "|" + keepID
	}
	if _, ok := p.seen[key]; ok {
		return
	}
	p.seen[key] = struct{}{}
	p.proposals = append(p.proposals, MergeProposal{KeepID: keepID, MergeID: mergeID, Reason: reason})
}

// findMergeCandidates runs the five matching strategies over every
// entity type group and returns the deduplicated merge proposals.
func (r *Resolver) findMergeCandidates(entities []common.Entity) []MergeProposal {
	groups := make(map[string][]common.Entity)
	for _, entity := range entities {
		key := strings.ToUpper(strings.TrimSpace(entity.Type))
		groups[key] = append(groups[key], entity)
	}

	proposals := newProposalSet()
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		r.findCandidatesInType(group, proposals)
	}
	return proposals.proposals
}

func (r *Resolver) findCandidatesInType(entities []common.Entity, proposals *proposalSet) {
	all := make([]*candidate, 0, len(entities))
	for _, entity := range entities {
		tokens := TokenizeName(entity.Name)
		aliasNorm := r.aliases.Apply(entity.Name)
		aliasTokens := strings.Fields(aliasNorm)
		all = append(all, &candidate{
			id:          entity.ID,
			name:        entity.Name,
			norm:        NormalizeName(entity.Name),
			tokens:      tokens,
			set:         tokenSet(tokens),
			aliasTokens: aliasTokens,
			aliasSet:    tokenSet(aliasTokens),
			joint:       isJointName(entity.Name),
			proper:      isProperName(tokens),
		})
	}

	ambiguous := buildAmbiguitySet(all)

	// Joint entities still contribute to the ambiguity set above but are
	// excluded from both sides of every merge.
	eligible := make([]*candidate, 0, len(all))
	for _, cand := range all {
		if cand.joint {
			logger.Debug("[Resolve] Excluding joint entity from matching", "name", cand.name)
			continue
		}
		if len(cand.tokens) == 0 {
			continue
		}
		eligible = append(eligible, cand)
	}
	if len(eligible) < 2 {
		return
	}

	matchExactGroups(eligible, proposals)
	matchTokenGroups(eligible, false, proposals)
	matchTokenGroups(eligible, true, proposals)
	matchSubsets(eligible, false, ambiguous, proposals)
	matchSubsets(eligible, true, ambiguous, proposals)
	matchFuzzy(eligible, proposals)
}

// buildAmbiguitySet collects last names shared by two or more distinct
// token sets, under both plain and alias-resolved normalization. A
// single-token entity whose token is ambiguous ("SMITH" next to both
// "JOHN SMITH" and "MARY SMITH") must not merge onto either.
func buildAmbiguitySet(all []*candidate) map[string]struct{} {
	plain := make(map[string]map[string]struct{})
	aliased := make(map[string]map[string]struct{})

	record := func(index map[string]map[string]struct{}, tokens []string) {
		if len(tokens) == 0 {
			return
		}
		last := tokens[len(tokens)-1]
		if index[last] == nil {
			index[last] = make(map[string]struct{})
		}
		index[last][tokenSetKey(tokens)] = struct{}{}
	}

	for _, cand := range all {
		record(plain, cand.tokens)
		record(aliased, cand.aliasTokens)
	}

	ambiguous := make(map[string]struct{})
	for last, sets := range plain {
		if len(sets) >= 2 {
			ambiguous[last] = struct{}{}
		}
	}
	for last, sets := range aliased {
		if len(sets) >= 2 {
			ambiguous[last] = struct{}{}
		}
	}
	return ambiguous
}

// matchExactGroups merges entities whose normalized names are identical.
// The member with the longest original string is kept.
func matchExactGroups(eligible []*candidate, proposals *proposalSet) {
	groups := make(map[string][]*candidate)
	for _, cand := range eligible {
		groups[cand.norm] = append(groups[cand.norm], cand)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		keep := group[0]
		for _, cand := range group[1:] {
			if len(cand.name) > len(keep.name) {
				keep = cand
			}
		}
		for _, cand := range group {
			if cand != keep {
				proposals.add(keep.id, cand.id, "exact")
			}
		}
	}
}

// matchTokenGroups merges entities sharing the same unordered token set,
// which catches reordered names ("MCCARN BLAKE" vs "BLAKE MCCARN"). With
// useAlias set the comparison runs over alias-resolved token sets,
// catching surname variants.
func matchTokenGroups(eligible []*candidate, useAlias bool, proposals *proposalSet) {
	reason := "token-reorder"
	if useAlias {
		reason = "alias-token"
	}

	groups := make(map[string][]*candidate)
	for _, cand := range eligible {
		tokens := cand.tokens
		if useAlias {
			tokens = cand.aliasTokens
		}
		key := tokenSetKey(tokens)
		groups[key] = append(groups[key], cand)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		keep := group[0]
		for _, cand := range group[1:] {
			keep, _ = chooseCanonical(keep, cand)
		}
		for _, cand := range group {
			if cand != keep {
				proposals.add(keep.id, cand.id, reason)
			}
		}
	}
}

// matchSubsets proposes merging an entity whose token set is a strict
// subset of another entity's token set ("BLAKE" into "BLAKE T MCCARN").
// Candidate supersets are found through an inverted token index rather
// than a full pairwise scan. Single-token subjects are rejected when the
// token is an ambiguous last name or fails the proper-name check.
func matchSubsets(eligible []*candidate, useAlias bool, ambiguous map[string]struct{}, proposals *proposalSet) {
	reason := "subset"
	if useAlias {
		reason = "alias-subset"
	}

	setOf := func(cand *candidate) map[string]struct{} {
		if useAlias {
			return cand.aliasSet
		}
		return cand.set
	}

	index := make(map[string][]int)
	for i, cand := range eligible {
		for tok := range setOf(cand) {
			index[tok] = append(index[tok], i)
		}
	}

	for i, cand := range eligible {
		set := setOf(cand)
		if len(set) == 0 {
			continue
		}
		if len(set) == 1 {
			var only string
			for tok := range set {
				only = tok
			}
			if _, ok := ambiguous[only]; ok {
				logger.Debug("[Resolve] Skipping ambiguous single-token merge", "name", cand.name, "token", only)
				continue
			}
			if !cand.proper {
				logger.Debug("[Resolve] Skipping non-proper single-token merge", "name", cand.name)
				continue
			}
		}

		// Intersect the posting lists of the subject's tokens; a superset
		// must appear once per token.
		hits := make(map[int]int)
		for tok := range set {
			for _, j := range index[tok] {
				hits[j]++
			}
		}
		for j, count := range hits {
			if j == i || count != len(set) {
				continue
			}
			super := setOf(eligible[j])
			if !isSubset(set, super) {
				continue
			}
			proposals.add(eligible[j].id, cand.id, reason)
		}
	}
}

// matchFuzzy merges entities whose names differ in exactly one token
// within a bounded edit distance, catching OCR slips like "CARLSEN" vs
// "CARLSON". Blocking keys omit one token at a time so that two names
// differing in exactly one token land in the same bucket without a full
// pairwise comparison.
func matchFuzzy(eligible []*candidate, proposals *proposalSet) {
	buckets := make(map[string][]int)
	for i, cand := range eligible {
		for k := range cand.tokens {
			key := blockingKey(cand.tokens, k)
			buckets[key] = append(buckets[key], i)
		}
	}

	for _, bucket := range buckets {
		for bi := 0; bi < len(bucket); bi++ {
			for bj := bi + 1; bj < len(bucket); bj++ {
				a, b := eligible[bucket[bi]], eligible[bucket[bj]]
				if a == b {
					continue
				}
				if accepted, ta, tb := fuzzyAccept(a, b); accepted {
					keep, merge := chooseCanonical(a, b)
					logger.Debug("[Resolve] Fuzzy merge candidate",
						"keep", keep.name, "merge", merge.name, "tokens", ta+"/"+tb)
					proposals.add(keep.id, merge.id, "fuzzy")
				}
			}
		}
	}
}

func blockingKey(tokens []string, skip int) string {
	parts := make([]string, 0, len(tokens)-1)
	for i, tok := range tokens {
		if i != skip {
			parts = append(parts, tok)
		}
	}
	return strings.Join(parts, " ")
}

// fuzzyAccept applies the fuzzy-match acceptance rules to a same-bucket
// pair and returns the differing token of each side when accepted.
func fuzzyAccept(a, b *candidate) (bool, string, string) {
	if !a.proper || !b.proper {
		return false, "", ""
	}

	diffA := setDifference(a.set, b.set)
	diffB := setDifference(b.set, a.set)
	if len(diffA) != 1 || len(diffB) != 1 {
		return false, "", ""
	}
	ta, tb := diffA[0], diffB[0]

	// Very short tokens (initials, particles) carry too little signal.
	if len(ta) < minFuzzyTokenLen || len(tb) < minFuzzyTokenLen {
		return false, "", ""
	}

	distance := levenshtein(ta, tb)
	if distance == 0 || distance > maxFuzzyDistance {
		return false, "", ""
	}

	// Equal-length distance-2 on long tokens means two substitutions: a
	// different word, not an OCR insert/delete slip.
	if distance == maxFuzzyDistance && len(ta) == len(tb) && len(ta) >= equalLenRejectMinSize {
		return false, "", ""
	}

	if middleInitialConflict(a.tokens, b.tokens) {
		return false, "", ""
	}

	return true, ta, tb
}

// middleInitialConflict reports whether two equal-length names disagree
// on a single-character token at the same position: "LOWELL E LANDER"
// and "LOWELL X LANDER" are different people.
func middleInitialConflict(a, b []string) bool {
	if len(a) != len(b) || len(a) < 3 {
		return false
	}
	for i := range a {
		if len(a[i]) == 1 && len(b[i]) == 1 && a[i] != b[i] {
			return true
		}
	}
	return false
}

func setDifference(a, b map[string]struct{}) []string {
	var diff []string
	for tok := range a {
		if _, ok := b[tok]; !ok {
			diff = append(diff, tok)
		}
	}
	return diff
}

// chooseCanonical picks the surviving side of a pair: never a joint
// entity when the other side is not joint, then the side with more
// tokens, then the longer display string.
func chooseCanonical(a, b *candidate) (keep, merge *candidate) {
	switch {
	case a.joint && !b.joint:
		return b, a
	case b.joint && !a.joint:
		return a, b
	case len(b.tokens) > len(a.tokens):
		return b, a
	case len(a.tokens) > len(b.tokens):
		return a, b
	case len(b.name) > len(a.name):
		return b, a
	default:
		return a, b
	}
}
