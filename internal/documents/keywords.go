package documents

import (
	"sort"
	"strings"

	"sahaay/internal/rules"
)

// keywordDictionary maps a normalized document-type key to the textual
// markers an authentic scan of that document is expected to carry. OCR output
// is noisy, so markers are matched fuzzily; common misspellings ("aadhar")
// get their own entries rather than relying on the matcher alone.
var keywordDictionary = map[string][]string{
	"aadhaar":            {"aadhaar", "aadhar", "unique identification", "uidai", "enrollment"},
	"aadhar":             {"aadhaar", "aadhar", "unique identification", "uidai", "enrollment"},
	"pan":                {"permanent account number", "income tax department", "pan"},
	"income_certificate": {"income certificate", "annual income", "tehsildar", "revenue department"},
	"caste_certificate":  {"caste certificate", "caste", "community certificate"},
	"ration_card":        {"ration card", "civil supplies", "food"},
	"bank_passbook":      {"bank", "account number", "ifsc", "branch"},
	"bank_details":       {"bank", "account number", "ifsc", "branch"},
	"voter_id":           {"election commission", "elector", "epic"},
	"job_card":           {"job card", "mgnrega", "employment guarantee"},
	"land_records":       {"khasra", "khatauni", "land", "survey number"},
	"photo":              {"photo"},
	"address_proof":      {"address"},
	"birth_certificate":  {"birth certificate", "date of birth", "registrar"},
	"medical_certificate": {"medical certificate", "registered medical practitioner", "hospital"},
	"income_proof":       {"income", "salary"},
	"driving_licence":    {"driving licence", "transport department", "licence"},
}

// lookupKeywords resolves the expected markers for a requested document type.
// Resolution order: exact normalized key, then substring containment against
// dictionary keys in either direction. Unrecognized types return false - a
// document of unknown type never silently passes.
func lookupKeywords(docType string) ([]string, bool) {
	key := rules.NormalizeDocKey(docType)
	if key == "" {
		return nil, false
	}
	if kw, ok := keywordDictionary[key]; ok {
		return kw, true
	}
	// Sorted scan keeps containment lookups deterministic.
	dictKeys := make([]string, 0, len(keywordDictionary))
	for dictKey := range keywordDictionary {
		dictKeys = append(dictKeys, dictKey)
	}
	sort.Strings(dictKeys)
	for _, dictKey := range dictKeys {
		if strings.Contains(key, dictKey) || strings.Contains(dictKey, key) {
			return keywordDictionary[dictKey], true
		}
	}
	return nil, false
}
