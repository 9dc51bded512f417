package resolve

import "strings"

// roleWords are generic institutional-role labels that the extraction
// stage sometimes emits as person entities. They are not names: two
// documents both mentioning an "EMPLOYEE" need not mean the same person,
// so role-word entities never take part in fuzzy or single-token subset
// matching.
var roleWords = map[string]struct{}{
	"EMPLOYEE":       {},
	"EMPLOYER":       {},
	"APPLICANT":      {},
	"PATIENT":        {},
	"TENANT":         {},
	"LANDLORD":       {},
	"BENEFICIARY":    {},
	"CLAIMANT":       {},
	"CUSTOMER":       {},
	"CLIENT":         {},
	"OWNER":          {},
	"RESIDENT":       {},
	"SPOUSE":         {},
	"GUARDIAN":       {},
	"WITNESS":        {},
	"ATTORNEY":       {},
	"AGENT":          {},
	"REPRESENTATIVE": {},
	"MEMBER":         {},
	"BORROWER":       {},
	"LENDER":         {},
	"BUYER":          {},
	"SELLER":         {},
	"INSURED":        {},
	"PROVIDER":       {},
	"DEPENDENT":      {},
	"DRIVER":         {},
	"STUDENT":        {},
}

const maxSingleTokenProperLen = 12

// isProperName reports whether a token list looks like a real proper
// name: no role words, and a single-token name may not be longer than 12
// characters (long single tokens are usually concatenated labels, not
// surnames).
func isProperName(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if _, ok := roleWords[tok]; ok {
			return false
		}
	}
	if len(tokens) == 1 && len(tokens[0]) > maxSingleTokenProperLen {
		return false
	}
	return true
}

// isJointName reports whether the original, pre-normalization text names
// two or more people at once ("Blake & Chelsea McCarn"). Normalization
// strips the ampersand, so this must inspect the raw string. Joint
// entities are excluded from both sides of every merge: their
// descriptions conflate two identities and merging would misattribute
// facts.
func isJointName(raw string) bool {
	if strings.Contains(raw, "&") {
		return true
	}
	for _, field := range strings.Fields(strings.ToUpper(raw)) {
		if field == "AND" {
			return true
		}
	}
	return false
}
