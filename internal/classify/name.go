package classify

import (
	"fmt"
	"strings"

	"synthcheck/internal/profile"
)

// nameMatchConfidence is the fixed confidence assigned on a keyword hit.
// A column literally named after a PII type is strong but not conclusive
// evidence (a "name" column can hold product names).
const nameMatchConfidence = 0.85

type nameRule struct {
	piiType  string
	keywords []string
}

// Scanned in order; the first keyword contained in the normalized column
// name wins. Specific compound keywords come before generic ones so that
// e.g. "date_of_birth" is dob, not a plain date column.
var nameRules = []nameRule{
	{TypeEmail, []string{"email", "emailaddress", "mail"}},
	{TypePhone, []string{"phone", "mobile", "cellphone", "telephone", "fax", "tel"}},
	{TypeSSN, []string{"ssn", "socialsecurity", "nationalid", "taxid"}},
	{TypeCreditCard, []string{"creditcard", "cardnumber", "ccnum", "pan"}},
	{TypePassword, []string{"password", "passwd", "pwd", "secret"}},
	{TypeDateOfBirth, []string{"dateofbirth", "birthdate", "birthday", "dob", "birth"}},
	{TypePostalCode, []string{"postalcode", "zipcode", "zip", "postcode"}},
	{TypeAddress, []string{"address", "street", "city", "residence"}},
	{TypeName, []string{"firstname", "lastname", "fullname", "surname", "givenname", "middlename", "username", "nickname", "name"}},
	{TypeIPAddress, []string{"ipaddress", "ipaddr"}},
}

// NameBasedClassifier matches normalized column names against a fixed
// ordered keyword table, the cheapest and most precise of the classifiers.
type NameBasedClassifier struct{}

func NewNameBasedClassifier() *NameBasedClassifier {
	return &NameBasedClassifier{}
}

func (c *NameBasedClassifier) Classify(p *profile.ColumnProfile) ClassificationScore {
	normalized := normalizeColumnName(p.Name)

	for _, rule := range nameRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, normalizeColumnName(kw)) {
				return ClassificationScore{
					Confidence:      nameMatchConfidence,
					SensitivityType: rule.piiType,
					Reasoning:       fmt.Sprintf("column name contains %q keyword %q", rule.piiType, kw),
				}
			}
		}
	}

	return zeroScore("column name matched no PII keyword")
}

func normalizeColumnName(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "_", "")
	n = strings.ReplaceAll(n, " ", "")
	return n
}
